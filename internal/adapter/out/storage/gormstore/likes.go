package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/pagination"
	"postgraph/pkg/tableinfo"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

const pairCondition = tableinfo.LikeUserIDColumn + " = ? AND " + tableinfo.LikePostIDColumn + " = ?"

type LikeStorage struct {
	db *gorm.DB
}

func NewLikeStorage(db *gorm.DB) *LikeStorage {
	return &LikeStorage{db: db}
}

func (s *LikeStorage) CreateLike(ctx context.Context, userID, postID int64) (model.Like, error) {
	row := likeRow{UserID: userID, PostID: postID}
	if err := conn(ctx, s.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Like{}, storage.ErrUniqueViolation
		}
		return model.Like{}, fmt.Errorf("insert like: %w", err)
	}
	return row.toModel(), nil
}

func (s *LikeStorage) GetLike(ctx context.Context, userID, postID int64) (model.Like, error) {
	var row likeRow
	err := conn(ctx, s.db).Where(pairCondition, userID, postID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Like{}, storage.ErrNotFound
	}
	if err != nil {
		return model.Like{}, fmt.Errorf("select like: %w", err)
	}
	return row.toModel(), nil
}

func (s *LikeStorage) DeleteLike(ctx context.Context, userID, postID int64) (int64, error) {
	res := conn(ctx, s.db).Where(pairCondition, userID, postID).Delete(&likeRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete like: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *LikeStorage) CountLikes(ctx context.Context, postID int64) (int, error) {
	var n int64
	err := conn(ctx, s.db).Model(&likeRow{}).Where(tableinfo.LikePostIDColumn+" = ?", postID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return int(n), nil
}

func (s *LikeStorage) ListLikes(ctx context.Context, params storage.ListLikesParams) ([]model.Like, error) {
	w := params.Window
	op, orderBy := storage.OrderByID.Seek(w.Direction)

	q := conn(ctx, s.db).Where(tableinfo.LikePostIDColumn+" = ?", params.PostID)
	if w.HasCursor() {
		q = q.Where(tableinfo.LikeIDColumn+" "+op+" ?", w.Cursor)
	}

	var rows []likeRow
	if err := q.Order(strings.Join(orderBy, ", ")).Limit(w.Fetch()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select likes: %w", err)
	}

	out := lo.Map(rows, func(r likeRow, _ int) model.Like { return r.toModel() })
	if w.Direction == pagination.Backward {
		pagination.Reverse(out)
	}
	return out, nil
}
