package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/adapter/out/storage/inmemory"
	"postgraph/internal/model"
	"postgraph/pkg/pagination"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type likeMocks struct {
	posts *MockPostStorage
	likes *MockLikeStorage
}

func newLikeService(t *testing.T) (*LikeService, likeMocks) {
	ctrl := gomock.NewController(t)
	m := likeMocks{
		posts: NewMockPostStorage(ctrl),
		likes: NewMockLikeStorage(ctrl),
	}
	tx := NewMockTxManager(ctrl)
	tx.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
	return NewLikeService(m.posts, m.likes, tx, Limits{Default: 10, Max: 100}), m
}

var published = model.Post{ID: 3, Published: true}

func TestLikeService_LikePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userID    int64
		postID    int64
		setup     func(m likeMocks)
		wantCount int
		wantErr   error
	}{
		{
			name:    "anonymous",
			userID:  0,
			postID:  3,
			setup:   func(likeMocks) {},
			wantErr: ErrUnauthenticated,
		},
		{
			name:    "bad post id",
			userID:  1,
			postID:  -1,
			setup:   func(likeMocks) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:   "missing post",
			userID: 1,
			postID: 3,
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(model.Post{}, storage.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "unpublished post",
			userID: 1,
			postID: 3,
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(model.Post{ID: 3}, nil)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "already liked",
			userID: 1,
			postID: 3,
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
				m.likes.EXPECT().GetLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{ID: 1}, nil)
			},
			wantErr: ErrAlreadyLiked,
		},
		{
			name:   "unique violation on insert",
			userID: 1,
			postID: 3,
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
				m.likes.EXPECT().GetLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{}, storage.ErrNotFound)
				m.likes.EXPECT().CreateLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{}, storage.ErrUniqueViolation)
			},
			wantErr: ErrAlreadyLiked,
		},
		{
			name:   "success",
			userID: 1,
			postID: 3,
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
				m.likes.EXPECT().GetLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{}, storage.ErrNotFound)
				m.likes.EXPECT().CreateLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{ID: 8}, nil)
				m.likes.EXPECT().CountLikes(gomock.Any(), int64(3)).Return(5, nil)
			},
			wantCount: 5,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, m := newLikeService(t)
			tt.setup(m)

			got, err := svc.LikePost(context.Background(), tt.userID, tt.postID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCount, got.LikeCount)
		})
	}
}

func TestLikeService_LikePost_ConstraintViolationKind(t *testing.T) {
	t.Parallel()

	svc, m := newLikeService(t)
	m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
	m.likes.EXPECT().GetLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{}, storage.ErrNotFound)
	m.likes.EXPECT().CreateLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{}, storage.ErrUniqueViolation)

	_, err := svc.LikePost(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrAlreadyLiked)
	require.ErrorIs(t, err, ErrConstraintViolation)
}

func TestLikeService_UnlikePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setup     func(m likeMocks)
		wantCount int
		wantErr   error
	}{
		{
			name: "missing post",
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(model.Post{}, storage.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "not liked",
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
				m.likes.EXPECT().GetLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{}, storage.ErrNotFound)
			},
			wantErr: ErrNotLiked,
		},
		{
			name: "concurrent unlike removed nothing",
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
				m.likes.EXPECT().GetLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{ID: 2}, nil)
				m.likes.EXPECT().DeleteLike(gomock.Any(), int64(1), int64(3)).Return(int64(0), nil)
			},
			wantErr: ErrNotLiked,
		},
		{
			name: "storage failure",
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
				m.likes.EXPECT().GetLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{}, errors.New("conn reset"))
			},
			wantErr: errors.New("conn reset"),
		},
		{
			name: "success",
			setup: func(m likeMocks) {
				m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
				m.likes.EXPECT().GetLike(gomock.Any(), int64(1), int64(3)).Return(model.Like{ID: 2}, nil)
				m.likes.EXPECT().DeleteLike(gomock.Any(), int64(1), int64(3)).Return(int64(1), nil)
				m.likes.EXPECT().CountLikes(gomock.Any(), int64(3)).Return(0, nil)
			},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, m := newLikeService(t)
			tt.setup(m)

			got, err := svc.UnlikePost(context.Background(), 1, 3)
			if tt.wantErr != nil {
				require.Error(t, err)
				if !errors.Is(err, tt.wantErr) {
					require.ErrorContains(t, err, tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCount, got.LikeCount)
		})
	}
}

func TestLikeService_PostLikes(t *testing.T) {
	t.Parallel()

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		svc, m := newLikeService(t)
		m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(model.Post{}, storage.ErrNotFound)

		_, err := svc.PostLikes(context.Background(), 3, pagination.Args{})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid arguments are rejected before storage", func(t *testing.T) {
		t.Parallel()
		svc, _ := newLikeService(t)
		zero := 0

		_, err := svc.PostLikes(context.Background(), 3, pagination.Args{First: &zero})
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("page", func(t *testing.T) {
		t.Parallel()
		svc, m := newLikeService(t)
		first := 2
		m.posts.EXPECT().GetPostByID(gomock.Any(), int64(3)).Return(published, nil)
		m.likes.EXPECT().ListLikes(gomock.Any(), storage.ListLikesParams{
			PostID: 3,
			Window: pagination.Window{Direction: pagination.Forward, Size: 2},
		}).Return([]model.Like{{ID: 1}, {ID: 2}, {ID: 5}}, nil)
		m.likes.EXPECT().CountLikes(gomock.Any(), int64(3)).Return(3, nil)

		conn, err := svc.PostLikes(context.Background(), 3, pagination.Args{First: &first})
		require.NoError(t, err)
		require.Equal(t, []model.Like{{ID: 1}, {ID: 2}}, conn.Nodes())
		require.True(t, conn.PageInfo.HasNextPage)
		require.Equal(t, 3, conn.TotalCount)
		require.Equal(t, pagination.EncodeCursor(2), *conn.PageInfo.EndCursor)
	})
}

func TestLikeService_ConcurrentLikes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	posts := inmemory.NewPostStorage()
	p, err := posts.CreatePost(ctx, model.Post{Title: "t", Content: "c", Published: true, AuthorID: 1})
	require.NoError(t, err)

	svc := NewLikeService(posts, inmemory.NewLikeStorage(), inmemory.TxManager{}, DefaultLimits())

	const workers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		already int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.LikePost(ctx, 7, p.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrAlreadyLiked):
				already++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, ok)
	require.Equal(t, workers-1, already)

	got, err := svc.UnlikePost(ctx, 7, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.LikeCount)

	_, err = svc.UnlikePost(ctx, 7, p.ID)
	require.ErrorIs(t, err, ErrNotLiked)
}
