package graphql

import (
	"fmt"
	"strconv"
	"time"

	"postgraph/internal/model"
	"postgraph/internal/service"
	"postgraph/pkg/pagination"

	"github.com/samber/lo"
)

type userNode struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type postNode struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type likeNode struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

type likeCountNode struct {
	LikeCount int `json:"likeCount"`
}

type pageInfoNode struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

type edgeNode[N any] struct {
	Cursor string `json:"cursor"`
	Node   N      `json:"node"`
}

type connectionNode[N any] struct {
	Edges      []edgeNode[N] `json:"edges"`
	TotalCount int           `json:"totalCount"`
	PageInfo   pageInfoNode  `json:"pageInfo"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(name string, v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer id, got %q", service.ErrInvalidArgument, name, s)
	}
	return id, nil
}

func toUserNode(u model.User) *userNode {
	return &userNode{
		ID:        formatID(u.ID),
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toPostNode(p model.Post) *postNode {
	return &postNode{
		ID:        formatID(p.ID),
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  formatID(p.AuthorID),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostNodes(posts []model.Post) []*postNode {
	return lo.Map(posts, func(p model.Post, _ int) *postNode { return toPostNode(p) })
}

func toLikeNode(l model.Like) *likeNode {
	return &likeNode{
		ID:        formatID(l.ID),
		UserID:    formatID(l.UserID),
		PostID:    formatID(l.PostID),
		CreatedAt: l.CreatedAt,
	}
}

func toLikeCountNode(c model.LikeCount) *likeCountNode {
	return &likeCountNode{LikeCount: c.LikeCount}
}

func toConnection[T, N any](c pagination.Connection[T], node func(T) N) *connectionNode[N] {
	return &connectionNode[N]{
		Edges: lo.Map(c.Edges, func(e pagination.Edge[T], _ int) edgeNode[N] {
			return edgeNode[N]{Cursor: e.Cursor, Node: node(e.Node)}
		}),
		TotalCount: c.TotalCount,
		PageInfo: pageInfoNode{
			HasNextPage:     c.PageInfo.HasNextPage,
			HasPreviousPage: c.PageInfo.HasPreviousPage,
			StartCursor:     c.PageInfo.StartCursor,
			EndCursor:       c.PageInfo.EndCursor,
		},
	}
}

func toPageArgs(args map[string]interface{}) pagination.Args {
	var out pagination.Args
	if v, ok := args["first"].(int); ok {
		out.First = &v
	}
	if v, ok := args["last"].(int); ok {
		out.Last = &v
	}
	if v, ok := args["after"].(string); ok && v != "" {
		out.After = &v
	}
	if v, ok := args["before"].(string); ok && v != "" {
		out.Before = &v
	}
	return out
}

func toPostOrder(v any) *service.PostOrder {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	field, _ := m["field"].(string)
	dir, _ := m["direction"].(string)
	return &service.PostOrder{Field: field, Desc: dir == directionDesc}
}
