package service

import (
	"context"
	"errors"
	"fmt"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/logger"
	"postgraph/pkg/pagination"
)

//go:generate mockgen -source=likes.go -destination=./likes_mock.go -package=service
type LikeStorage interface {
	// CreateLike fails with storage.ErrUniqueViolation when the pair exists.
	CreateLike(ctx context.Context, userID, postID int64) (model.Like, error)
	GetLike(ctx context.Context, userID, postID int64) (model.Like, error)
	// DeleteLike reports the number of removed rows.
	DeleteLike(ctx context.Context, userID, postID int64) (int64, error)
	CountLikes(ctx context.Context, postID int64) (int, error)
	ListLikes(ctx context.Context, params storage.ListLikesParams) ([]model.Like, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type LikeService struct {
	posts  PostStorage
	likes  LikeStorage
	tx     TxManager
	limits Limits
}

func NewLikeService(posts PostStorage, likes LikeStorage, tx TxManager, limits Limits) *LikeService {
	return &LikeService{
		posts:  posts,
		likes:  likes,
		tx:     tx,
		limits: limits,
	}
}

func (s *LikeService) LikePost(ctx context.Context, userID, postID int64) (model.LikeCount, error) {
	var out model.LikeCount
	if err := s.validatePair(userID, postID); err != nil {
		return out, err
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.requirePublished(ctx, postID); err != nil {
			return err
		}

		_, err := s.likes.GetLike(ctx, userID, postID)
		switch {
		case err == nil:
			return ErrAlreadyLiked
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("get like: %w", err)
		}

		if _, err := s.likes.CreateLike(ctx, userID, postID); err != nil {
			if errors.Is(err, storage.ErrUniqueViolation) {
				// lost a race with a concurrent like of the same pair
				return fmt.Errorf("%w: %w", ErrAlreadyLiked, ErrConstraintViolation)
			}
			return fmt.Errorf("create like: %w", err)
		}

		out.LikeCount, err = s.likes.CountLikes(ctx, postID)
		if err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.LikeCount{}, err
	}

	logger.FromContext(ctx).Debug("post liked", "post_id", postID, "user_id", userID, "likes", out.LikeCount)
	return out, nil
}

func (s *LikeService) UnlikePost(ctx context.Context, userID, postID int64) (model.LikeCount, error) {
	var out model.LikeCount
	if err := s.validatePair(userID, postID); err != nil {
		return out, err
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.requirePublished(ctx, postID); err != nil {
			return err
		}

		_, err := s.likes.GetLike(ctx, userID, postID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return ErrNotLiked
		case err != nil:
			return fmt.Errorf("get like: %w", err)
		}

		n, err := s.likes.DeleteLike(ctx, userID, postID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if n == 0 {
			return ErrNotLiked
		}

		out.LikeCount, err = s.likes.CountLikes(ctx, postID)
		if err != nil {
			return fmt.Errorf("count likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.LikeCount{}, err
	}

	logger.FromContext(ctx).Debug("post unliked", "post_id", postID, "user_id", userID, "likes", out.LikeCount)
	return out, nil
}

// PostLikes pages through the likes of a post in id order.
func (s *LikeService) PostLikes(ctx context.Context, postID int64, args pagination.Args) (pagination.Connection[model.Like], error) {
	var conn pagination.Connection[model.Like]

	if err := validateID("postID", postID); err != nil {
		return conn, err
	}
	w, err := s.limits.window(args)
	if err != nil {
		return conn, err
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return conn, fromStorage("get post", err)
	}

	rows, err := s.likes.ListLikes(ctx, storage.ListLikesParams{PostID: postID, Window: w})
	if err != nil {
		return conn, fromStorage("list likes", err)
	}
	total, err := s.likes.CountLikes(ctx, postID)
	if err != nil {
		return conn, fromStorage("count likes", err)
	}

	return pagination.Assemble(w, rows, total, func(l model.Like) int64 { return l.ID }), nil
}

func (s *LikeService) validatePair(userID, postID int64) error {
	if userID <= 0 {
		return ErrUnauthenticated
	}
	return validateID("postID", postID)
}

// requirePublished hides unpublished posts behind ErrNotFound.
func (s *LikeService) requirePublished(ctx context.Context, postID int64) error {
	p, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return fromStorage("get post", err)
	}
	if !p.Published {
		return fmt.Errorf("post %d is not published: %w", postID, ErrNotFound)
	}
	return nil
}
