package inmemory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/pagination"
	"postgraph/pkg/tableinfo"
)

type PostStorage struct {
	mu sync.RWMutex
	// posts[id] holds the post with that id; index 0 is unused.
	posts []model.Post
}

func NewPostStorage() *PostStorage {
	return &PostStorage{
		posts: []model.Post{{}},
	}
}

func (s *PostStorage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	in.ID = int64(len(s.posts))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = in.CreatedAt
	}
	s.posts = append(s.posts, in)
	return in, nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.get(postID); ok {
		return p, nil
	}
	return model.Post{}, storage.ErrNotFound
}

func (s *PostStorage) get(postID int64) (model.Post, bool) {
	if postID <= 0 || postID >= int64(len(s.posts)) {
		return model.Post{}, false
	}
	return s.posts[postID], true
}

func (s *PostStorage) ListPublishedPosts(_ context.Context, params storage.ListPostsParams) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w := params.Window
	desc := params.Order.Desc
	if w.Direction == pagination.Backward {
		desc = !desc
	}
	compare := postComparator(params.Order.Col(), desc)
	if compare == nil {
		return nil, storage.ErrUnknownSort
	}

	matched := s.filter(params.Filter)
	slices.SortFunc(matched, compare)

	if w.HasCursor() {
		var pivot model.Post
		if params.Order.ByID() {
			pivot = model.Post{ID: w.Cursor}
		} else {
			p, ok := s.get(w.Cursor)
			if !ok {
				return []model.Post{}, nil
			}
			pivot = p
		}
		start, _ := slices.BinarySearchFunc(matched, pivot, compare)
		// skip the pivot itself
		for start < len(matched) && compare(matched[start], pivot) <= 0 {
			start++
		}
		matched = matched[start:]
	}

	if len(matched) > w.Fetch() {
		matched = matched[:w.Fetch()]
	}
	if w.Direction == pagination.Backward {
		pagination.Reverse(matched)
	}
	return matched, nil
}

func (s *PostStorage) CountPublishedPosts(_ context.Context, filter storage.PostFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.filter(filter)), nil
}

func (s *PostStorage) GetPublishedPostsByAuthor(_ context.Context, authorID int64) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, 0)
	for _, p := range s.posts[1:] {
		if p.Published && p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PostStorage) filter(f storage.PostFilter) []model.Post {
	out := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts[1:] {
		if !p.Published {
			continue
		}
		if f.Query != "" && !strings.Contains(p.Title, f.Query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// postComparator orders posts by column with id as tie breaker, matching
// ORDER BY column, id in SQL.
func postComparator(column string, desc bool) func(a, b model.Post) int {
	var byColumn func(a, b model.Post) int
	switch column {
	case tableinfo.PostIDColumn:
		byColumn = func(_, _ model.Post) int { return 0 }
	case tableinfo.PostTitleColumn:
		byColumn = func(a, b model.Post) int { return strings.Compare(a.Title, b.Title) }
	case tableinfo.PostContentColumn:
		byColumn = func(a, b model.Post) int { return strings.Compare(a.Content, b.Content) }
	case tableinfo.PostCreatedAtColumn:
		byColumn = func(a, b model.Post) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case tableinfo.PostUpdatedAtColumn:
		byColumn = func(a, b model.Post) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case tableinfo.PostPublishedColumn:
		byColumn = func(a, b model.Post) int { return cmp.Compare(boolRank(a.Published), boolRank(b.Published)) }
	default:
		return nil
	}

	return func(a, b model.Post) int {
		c := byColumn(a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
