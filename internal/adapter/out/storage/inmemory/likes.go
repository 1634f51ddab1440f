package inmemory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/pagination"
)

type likeKey struct {
	userID int64
	postID int64
}

type LikeStorage struct {
	mu     sync.RWMutex
	nextID int64
	// byPair plays the role of the unique (user_id, post_id) index.
	byPair map[likeKey]model.Like
}

func NewLikeStorage() *LikeStorage {
	return &LikeStorage{
		nextID: 1,
		byPair: make(map[likeKey]model.Like),
	}
}

func (s *LikeStorage) CreateLike(_ context.Context, userID, postID int64) (model.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{userID: userID, postID: postID}
	if _, ok := s.byPair[key]; ok {
		return model.Like{}, storage.ErrUniqueViolation
	}
	l := model.Like{
		ID:        s.nextID,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.byPair[key] = l
	return l, nil
}

func (s *LikeStorage) GetLike(_ context.Context, userID, postID int64) (model.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.byPair[likeKey{userID: userID, postID: postID}]
	if !ok {
		return model.Like{}, storage.ErrNotFound
	}
	return l, nil
}

func (s *LikeStorage) DeleteLike(_ context.Context, userID, postID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{userID: userID, postID: postID}
	if _, ok := s.byPair[key]; !ok {
		return 0, nil
	}
	delete(s.byPair, key)
	return 1, nil
}

func (s *LikeStorage) CountLikes(_ context.Context, postID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.postLikes(postID)), nil
}

func (s *LikeStorage) ListLikes(_ context.Context, params storage.ListLikesParams) ([]model.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w := params.Window
	all := s.postLikes(params.PostID)

	out := make([]model.Like, 0, w.Fetch())
	switch w.Direction {
	case pagination.Backward:
		for i := len(all) - 1; i >= 0 && len(out) < w.Fetch(); i-- {
			if w.HasCursor() && all[i].ID >= w.Cursor {
				continue
			}
			out = append(out, all[i])
		}
		pagination.Reverse(out)
	default:
		for i := 0; i < len(all) && len(out) < w.Fetch(); i++ {
			if w.HasCursor() && all[i].ID <= w.Cursor {
				continue
			}
			out = append(out, all[i])
		}
	}
	return out, nil
}

// postLikes returns the likes of a post ordered by id.
func (s *LikeStorage) postLikes(postID int64) []model.Like {
	out := make([]model.Like, 0)
	for _, l := range s.byPair {
		if l.PostID == postID {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b model.Like) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
