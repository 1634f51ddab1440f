package gormstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/pagination"
	"postgraph/pkg/tableinfo"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type PostStorage struct {
	db *gorm.DB
}

func NewPostStorage(db *gorm.DB) *PostStorage {
	return &PostStorage{db: db}
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	row := postRow{
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  in.AuthorID,
	}
	if err := conn(ctx, s.db).Create(&row).Error; err != nil {
		return model.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	var row postRow
	err := conn(ctx, s.db).Where(tableinfo.PostIDColumn+" = ?", postID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Post{}, storage.ErrNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("select post by id: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostStorage) published(ctx context.Context, f storage.PostFilter) *gorm.DB {
	q := conn(ctx, s.db).Model(&postRow{}).Where(tableinfo.PostPublishedColumn+" = ?", true)
	if f.Query != "" {
		q = q.Where(titleLike(s.db), storage.ContainsPattern(f.Query))
	}
	return q
}

// titleLike matches titles case-sensitively on every dialect. LIKE under the
// default mysql collations ignores case, so mysql compares bytes instead.
func titleLike(db *gorm.DB) string {
	if db.Dialector.Name() == DialectMySQL {
		return "CAST(" + tableinfo.PostTitleColumn + " AS BINARY) LIKE ?"
	}
	return tableinfo.PostTitleColumn + " LIKE ?"
}

func (s *PostStorage) ListPublishedPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, error) {
	if !slices.Contains(lo.Values(tableinfo.PostSortColumns), params.Order.Col()) {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownSort, params.Order.Column)
	}

	w := params.Window
	_, orderBy := params.Order.Seek(w.Direction)

	q := s.published(ctx, params.Filter)
	if w.HasCursor() {
		q = q.Where(storage.KeysetCondition(tableinfo.PostsTableName, params.Order, w.Direction), w.Cursor)
	}

	var rows []postRow
	if err := q.Order(strings.Join(orderBy, ", ")).Limit(w.Fetch()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select published posts: %w", err)
	}

	out := lo.Map(rows, func(r postRow, _ int) model.Post { return r.toModel() })
	if w.Direction == pagination.Backward {
		pagination.Reverse(out)
	}
	return out, nil
}

func (s *PostStorage) CountPublishedPosts(ctx context.Context, f storage.PostFilter) (int, error) {
	var n int64
	if err := s.published(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return int(n), nil
}

func (s *PostStorage) GetPublishedPostsByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	var rows []postRow
	err := conn(ctx, s.db).
		Where(tableinfo.PostAuthorIDColumn+" = ? AND "+tableinfo.PostPublishedColumn+" = ?", authorID, true).
		Order(tableinfo.PostIDColumn + " ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select posts by author: %w", err)
	}
	return lo.Map(rows, func(r postRow, _ int) model.Post { return r.toModel() }), nil
}
