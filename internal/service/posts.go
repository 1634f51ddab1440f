package service

import (
	"context"
	"fmt"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/logger"
	"postgraph/pkg/pagination"
)

const TopicPostCreated = "postCreated"

//go:generate mockgen -source=posts.go -destination=./posts_mock.go -package=service
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	// ListPublishedPosts returns up to params.Window.Fetch() posts in the requested order.
	ListPublishedPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, error)
	CountPublishedPosts(ctx context.Context, filter storage.PostFilter) (int, error)
	GetPublishedPostsByAuthor(ctx context.Context, authorID int64) ([]model.Post, error)
}

type PostBus interface {
	Publish(ctx context.Context, topic string, post model.Post) error
	Subscribe(ctx context.Context, topic string) (<-chan model.Post, error)
}

type PostService struct {
	posts  PostStorage
	users  UserStorage
	bus    PostBus
	limits Limits
}

func NewPostService(posts PostStorage, users UserStorage, bus PostBus, limits Limits) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		bus:    bus,
		limits: limits,
	}
}

func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	if err := validateStruct(req); err != nil {
		return model.Post{}, err
	}
	if _, err := s.users.GetUserByID(ctx, req.AuthorID); err != nil {
		return model.Post{}, fromStorage("get author", err)
	}

	p, err := s.posts.CreatePost(ctx, model.Post{
		Title:     req.Title,
		Content:   req.Content,
		Published: true,
		AuthorID:  req.AuthorID,
	})
	if err != nil {
		return model.Post{}, fromStorage("create post", err)
	}

	if err := s.bus.Publish(ctx, TopicPostCreated, p); err != nil {
		logger.FromContext(ctx).Warn("publish post created", "post_id", p.ID, "error", err)
	}
	return p, nil
}

func (s *PostService) GetPost(ctx context.Context, postID int64) (model.Post, error) {
	if err := validateID("postID", postID); err != nil {
		return model.Post{}, err
	}
	p, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return model.Post{}, fromStorage("get post", err)
	}
	return p, nil
}

// PublishedPosts pages through published posts whose title contains req.Query.
func (s *PostService) PublishedPosts(ctx context.Context, req PublishedPostsRequest) (pagination.Connection[model.Post], error) {
	var conn pagination.Connection[model.Post]

	w, err := s.limits.window(req.Page)
	if err != nil {
		return conn, err
	}

	var order storage.Order
	if req.OrderBy != nil {
		order, err = storage.ResolvePostOrder(req.OrderBy.Field, req.OrderBy.Desc)
		if err != nil {
			return conn, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	} else {
		order = storage.OrderByID
	}

	filter := storage.PostFilter{Query: req.Query}
	rows, err := s.posts.ListPublishedPosts(ctx, storage.ListPostsParams{
		Filter: filter,
		Order:  order,
		Window: w,
	})
	if err != nil {
		return conn, fromStorage("list posts", err)
	}
	total, err := s.posts.CountPublishedPosts(ctx, filter)
	if err != nil {
		return conn, fromStorage("count posts", err)
	}

	return pagination.Assemble(w, rows, total, postID), nil
}

func (s *PostService) UserPosts(ctx context.Context, userID int64) ([]model.Post, error) {
	if err := validateID("userID", userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, fromStorage("get user", err)
	}
	posts, err := s.posts.GetPublishedPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, fromStorage("get user posts", err)
	}
	return posts, nil
}

// SubscribePostCreated streams posts created from now on until ctx is done.
func (s *PostService) SubscribePostCreated(ctx context.Context) (<-chan model.Post, error) {
	ch, err := s.bus.Subscribe(ctx, TopicPostCreated)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicPostCreated, err)
	}
	return ch, nil
}

func postID(p model.Post) int64 { return p.ID }
