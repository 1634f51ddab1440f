package graphql

import (
	"context"
	"errors"

	"postgraph/internal/model"
	"postgraph/internal/service"
	"postgraph/pkg/auth"
	"postgraph/pkg/pagination"

	"github.com/graphql-go/graphql"
)

type PostService interface {
	CreatePost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	GetPost(ctx context.Context, postID int64) (model.Post, error)
	PublishedPosts(ctx context.Context, req service.PublishedPostsRequest) (pagination.Connection[model.Post], error)
	UserPosts(ctx context.Context, userID int64) ([]model.Post, error)
	SubscribePostCreated(ctx context.Context) (<-chan model.Post, error)
}

type LikeService interface {
	LikePost(ctx context.Context, userID, postID int64) (model.LikeCount, error)
	UnlikePost(ctx context.Context, userID, postID int64) (model.LikeCount, error)
	PostLikes(ctx context.Context, postID int64, args pagination.Args) (pagination.Connection[model.Like], error)
}

type UserService interface {
	GetUser(ctx context.Context, userID int64) (model.User, error)
}

type Resolver struct {
	postService PostService
	likeService LikeService
	userService UserService
}

func NewResolver(posts PostService, likes LikeService, users UserService) *Resolver {
	return &Resolver{
		postService: posts,
		likeService: likes,
		userService: users,
	}
}

// requireUser rejects anonymous callers before the resolver runs.
func requireUser(next graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if _, ok := auth.UserID(p.Context); !ok {
			return nil, service.ErrUnauthenticated
		}
		return next(p)
	}
}

func currentUser(ctx context.Context) int64 {
	id, _ := auth.UserID(ctx)
	return id
}

func (r *Resolver) post(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID("postId", p.Args["postId"])
	if err != nil {
		return nil, err
	}
	post, err := r.postService.GetPost(p.Context, id)
	if err != nil {
		return nil, err
	}
	return toPostNode(post), nil
}

func (r *Resolver) publishedPosts(p graphql.ResolveParams) (interface{}, error) {
	req := service.PublishedPostsRequest{
		Page:    toPageArgs(p.Args),
		OrderBy: toPostOrder(p.Args["orderBy"]),
	}
	if q, ok := p.Args["query"].(string); ok {
		req.Query = q
	}

	conn, err := r.postService.PublishedPosts(p.Context, req)
	if err != nil {
		return nil, err
	}
	return toConnection(conn, toPostNode), nil
}

func (r *Resolver) userPosts(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID("userId", p.Args["userId"])
	if err != nil {
		return nil, err
	}
	posts, err := r.postService.UserPosts(p.Context, id)
	if err != nil {
		return nil, err
	}
	return toPostNodes(posts), nil
}

func (r *Resolver) postLikes(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID("postId", p.Args["postId"])
	if err != nil {
		return nil, err
	}
	conn, err := r.likeService.PostLikes(p.Context, id, toPageArgs(p.Args))
	if err != nil {
		return nil, err
	}
	return toConnection(conn, toLikeNode), nil
}

func (r *Resolver) createPost(p graphql.ResolveParams) (interface{}, error) {
	data, _ := p.Args["data"].(map[string]interface{})
	title, _ := data["title"].(string)
	content, _ := data["content"].(string)

	post, err := r.postService.CreatePost(p.Context, service.CreatePostRequest{
		AuthorID: currentUser(p.Context),
		Title:    title,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}
	return toPostNode(post), nil
}

func (r *Resolver) likePost(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID("postId", p.Args["postId"])
	if err != nil {
		return nil, err
	}
	count, err := r.likeService.LikePost(p.Context, currentUser(p.Context), id)
	if err != nil {
		return nil, err
	}
	return toLikeCountNode(count), nil
}

func (r *Resolver) unlikePost(p graphql.ResolveParams) (interface{}, error) {
	id, err := parseID("postId", p.Args["postId"])
	if err != nil {
		return nil, err
	}
	count, err := r.likeService.UnlikePost(p.Context, currentUser(p.Context), id)
	if err != nil {
		return nil, err
	}
	return toLikeCountNode(count), nil
}

// subscribePostCreated feeds the subscription executor, which resolves the
// field once per value sent on the returned channel.
func (r *Resolver) subscribePostCreated(p graphql.ResolveParams) (interface{}, error) {
	posts, err := r.postService.SubscribePostCreated(p.Context)
	if err != nil {
		return nil, err
	}

	out := make(chan interface{})
	go func() {
		defer close(out)
		for post := range posts {
			select {
			case out <- toPostNode(post):
			case <-p.Context.Done():
				return
			}
		}
	}()
	return out, nil
}

func sourceNode(p graphql.ResolveParams) (interface{}, error) {
	return p.Source, nil
}

func (r *Resolver) user(ctx context.Context, rawID string) (interface{}, error) {
	id, err := parseID("userId", rawID)
	if err != nil {
		return nil, err
	}
	u, err := r.userService.GetUser(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toUserNode(u), nil
}

func (r *Resolver) postAuthor(p graphql.ResolveParams) (interface{}, error) {
	post, ok := p.Source.(*postNode)
	if !ok {
		return nil, nil
	}
	return r.user(p.Context, post.AuthorID)
}

func (r *Resolver) likeUser(p graphql.ResolveParams) (interface{}, error) {
	like, ok := p.Source.(*likeNode)
	if !ok {
		return nil, nil
	}
	return r.user(p.Context, like.UserID)
}
