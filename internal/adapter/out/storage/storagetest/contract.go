// Package storagetest holds behaviour every storage backend must share.
// Backends run it from their own tests with fresh, empty stores.
package storagetest

import (
	"context"
	"fmt"
	"testing"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/internal/service"
	"postgraph/pkg/pagination"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type Stores struct {
	Users service.UserStorage
	Posts service.PostStorage
	Likes service.LikeStorage
}

func Run(t *testing.T, newStores func(t *testing.T) Stores) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStores(t)) })
	t.Run("posts", func(t *testing.T) { testPosts(t, newStores(t)) })
	t.Run("published posts window", func(t *testing.T) { testPublishedWindow(t, newStores(t)) })
	t.Run("published posts filter and sort", func(t *testing.T) { testFilterAndSort(t, newStores(t)) })
	t.Run("likes", func(t *testing.T) { testLikes(t, newStores(t)) })
	t.Run("likes window", func(t *testing.T) { testLikesWindow(t, newStores(t)) })
}

func seedUser(t *testing.T, s Stores, email string) model.User {
	t.Helper()
	u, err := s.Users.CreateUser(context.Background(), model.User{Email: email, Firstname: "F", Lastname: "L"})
	require.NoError(t, err)
	return u
}

func seedPost(t *testing.T, s Stores, authorID int64, title string, published bool) model.Post {
	t.Helper()
	p, err := s.Posts.CreatePost(context.Background(), model.Post{
		Title:     title,
		Content:   "content of " + title,
		Published: published,
		AuthorID:  authorID,
	})
	require.NoError(t, err)
	return p
}

func postIDs(posts []model.Post) []int64 {
	return lo.Map(posts, func(p model.Post, _ int) int64 { return p.ID })
}

func testUsers(t *testing.T, s Stores) {
	ctx := context.Background()

	u := seedUser(t, s, "ann@example.com")
	require.Positive(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	got, err := s.Users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.Firstname, got.Firstname)

	_, err = s.Users.GetUserByID(ctx, u.ID+1000)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Users.CreateUser(ctx, model.User{Email: "ann@example.com"})
	require.ErrorIs(t, err, storage.ErrUniqueViolation)
}

func testPosts(t *testing.T, s Stores) {
	ctx := context.Background()
	u := seedUser(t, s, "bob@example.com")
	other := seedUser(t, s, "eve@example.com")

	p := seedPost(t, s, u.ID, "hello", true)
	require.Positive(t, p.ID)
	require.True(t, p.Published)
	require.Equal(t, u.ID, p.AuthorID)

	got, err := s.Posts.GetPostByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.Title, got.Title)
	require.Equal(t, p.Content, got.Content)

	_, err = s.Posts.GetPostByID(ctx, p.ID+1000)
	require.ErrorIs(t, err, storage.ErrNotFound)

	draft := seedPost(t, s, u.ID, "draft", false)
	second := seedPost(t, s, u.ID, "second", true)
	seedPost(t, s, other.ID, "foreign", true)

	got, err = s.Posts.GetPostByID(ctx, draft.ID)
	require.NoError(t, err)
	require.False(t, got.Published)

	byAuthor, err := s.Posts.GetPublishedPostsByAuthor(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{p.ID, second.ID}, postIDs(byAuthor))

	none, err := s.Posts.GetPublishedPostsByAuthor(ctx, u.ID+1000)
	require.NoError(t, err)
	require.Empty(t, none)
}

func list(t *testing.T, s Stores, params storage.ListPostsParams) pagination.Connection[model.Post] {
	t.Helper()
	ctx := context.Background()

	rows, err := s.Posts.ListPublishedPosts(ctx, params)
	require.NoError(t, err)
	total, err := s.Posts.CountPublishedPosts(ctx, params.Filter)
	require.NoError(t, err)
	return pagination.Assemble(params.Window, rows, total, func(p model.Post) int64 { return p.ID })
}

func testPublishedWindow(t *testing.T, s Stores) {
	u := seedUser(t, s, "win@example.com")
	a := seedPost(t, s, u.ID, "A", true)
	b := seedPost(t, s, u.ID, "B", true)
	seedPost(t, s, u.ID, "hidden", false)
	c := seedPost(t, s, u.ID, "C", true)
	d := seedPost(t, s, u.ID, "D", true)

	first := list(t, s, storage.ListPostsParams{
		Window: pagination.Window{Direction: pagination.Forward, Size: 2},
	})
	require.Equal(t, []int64{a.ID, b.ID}, postIDs(first.Nodes()))
	require.True(t, first.PageInfo.HasNextPage)
	require.False(t, first.PageInfo.HasPreviousPage)
	require.Equal(t, 4, first.TotalCount)

	second := list(t, s, storage.ListPostsParams{
		Window: pagination.Window{Direction: pagination.Forward, Size: 2, Cursor: b.ID},
	})
	require.Equal(t, []int64{c.ID, d.ID}, postIDs(second.Nodes()))
	require.False(t, second.PageInfo.HasNextPage)
	require.True(t, second.PageInfo.HasPreviousPage)
	require.Equal(t, 4, second.TotalCount)

	// walking back from the end cursor of the second page yields the first one
	back := list(t, s, storage.ListPostsParams{
		Window: pagination.Window{Direction: pagination.Backward, Size: 2, Cursor: c.ID},
	})
	require.Equal(t, []int64{a.ID, b.ID}, postIDs(back.Nodes()))
	require.False(t, back.PageInfo.HasPreviousPage)
	require.True(t, back.PageInfo.HasNextPage)

	tail := list(t, s, storage.ListPostsParams{
		Window: pagination.Window{Direction: pagination.Backward, Size: 3},
	})
	require.Equal(t, []int64{b.ID, c.ID, d.ID}, postIDs(tail.Nodes()))
	require.True(t, tail.PageInfo.HasPreviousPage)

	all := list(t, s, storage.ListPostsParams{
		Window: pagination.Window{Direction: pagination.Forward, Size: 10},
	})
	require.Equal(t, []int64{a.ID, b.ID, c.ID, d.ID}, postIDs(all.Nodes()))
	require.False(t, all.PageInfo.HasNextPage)
}

func testFilterAndSort(t *testing.T, s Stores) {
	u := seedUser(t, s, "sort@example.com")
	titles := []string{"gopher tips", "rust", "go_lang", "100% go", "zig"}
	byTitle := make(map[string]model.Post, len(titles))
	for _, title := range titles {
		byTitle[title] = seedPost(t, s, u.ID, title, true)
	}
	seedPost(t, s, u.ID, "go draft", false)

	ids := func(names ...string) []int64 {
		return lo.Map(names, func(n string, _ int) int64 { return byTitle[n].ID })
	}

	t.Run("substring", func(t *testing.T) {
		conn := list(t, s, storage.ListPostsParams{
			Filter: storage.PostFilter{Query: "go"},
			Window: pagination.Window{Direction: pagination.Forward, Size: 10},
		})
		require.Equal(t, ids("gopher tips", "go_lang", "100% go"), postIDs(conn.Nodes()))
		require.Equal(t, 3, conn.TotalCount)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		for query, want := range map[string][]int64{
			"%":   ids("100% go"),
			"o_l": ids("go_lang"),
			"_":   ids("go_lang"),
		} {
			conn := list(t, s, storage.ListPostsParams{
				Filter: storage.PostFilter{Query: query},
				Window: pagination.Window{Direction: pagination.Forward, Size: 10},
			})
			require.Equal(t, want, postIDs(conn.Nodes()), fmt.Sprintf("query %q", query))
			require.Equal(t, len(want), conn.TotalCount)
		}
	})

	t.Run("case sensitive", func(t *testing.T) {
		conn := list(t, s, storage.ListPostsParams{
			Filter: storage.PostFilter{Query: "GO"},
			Window: pagination.Window{Direction: pagination.Forward, Size: 10},
		})
		require.Empty(t, conn.Edges)
		require.Zero(t, conn.TotalCount)
	})

	t.Run("total ignores window", func(t *testing.T) {
		conn := list(t, s, storage.ListPostsParams{
			Filter: storage.PostFilter{Query: "go"},
			Window: pagination.Window{Direction: pagination.Forward, Size: 1},
		})
		require.Len(t, conn.Edges, 1)
		require.Equal(t, 3, conn.TotalCount)
	})

	titleDesc := storage.Order{Column: "title", Desc: true}

	t.Run("title desc keyset", func(t *testing.T) {
		// zig, rust, gopher tips, go_lang, 100% go
		first := list(t, s, storage.ListPostsParams{
			Order:  titleDesc,
			Window: pagination.Window{Direction: pagination.Forward, Size: 2},
		})
		require.Equal(t, ids("zig", "rust"), postIDs(first.Nodes()))
		require.True(t, first.PageInfo.HasNextPage)

		next := list(t, s, storage.ListPostsParams{
			Order:  titleDesc,
			Window: pagination.Window{Direction: pagination.Forward, Size: 2, Cursor: byTitle["rust"].ID},
		})
		require.Equal(t, ids("gopher tips", "go_lang"), postIDs(next.Nodes()))
		require.True(t, next.PageInfo.HasNextPage)

		back := list(t, s, storage.ListPostsParams{
			Order:  titleDesc,
			Window: pagination.Window{Direction: pagination.Backward, Size: 2, Cursor: byTitle["gopher tips"].ID},
		})
		require.Equal(t, ids("zig", "rust"), postIDs(back.Nodes()))
		require.False(t, back.PageInfo.HasPreviousPage)
	})

	t.Run("vanished cursor row", func(t *testing.T) {
		conn := list(t, s, storage.ListPostsParams{
			Order:  titleDesc,
			Window: pagination.Window{Direction: pagination.Forward, Size: 2, Cursor: 1 << 40},
		})
		require.Empty(t, conn.Edges)
		require.Equal(t, 5, conn.TotalCount)
	})
}

func testLikes(t *testing.T, s Stores) {
	ctx := context.Background()
	u1 := seedUser(t, s, "l1@example.com")
	u2 := seedUser(t, s, "l2@example.com")
	p := seedPost(t, s, u1.ID, "liked", true)

	_, err := s.Likes.GetLike(ctx, u1.ID, p.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	l, err := s.Likes.CreateLike(ctx, u1.ID, p.ID)
	require.NoError(t, err)
	require.Positive(t, l.ID)
	require.Equal(t, u1.ID, l.UserID)
	require.Equal(t, p.ID, l.PostID)

	_, err = s.Likes.CreateLike(ctx, u1.ID, p.ID)
	require.ErrorIs(t, err, storage.ErrUniqueViolation)

	_, err = s.Likes.CreateLike(ctx, u2.ID, p.ID)
	require.NoError(t, err)

	n, err := s.Likes.CountLikes(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	got, err := s.Likes.GetLike(ctx, u1.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, l.ID, got.ID)

	removed, err := s.Likes.DeleteLike(ctx, u1.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	removed, err = s.Likes.DeleteLike(ctx, u1.ID, p.ID)
	require.NoError(t, err)
	require.Zero(t, removed)

	n, err = s.Likes.CountLikes(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func testLikesWindow(t *testing.T, s Stores) {
	ctx := context.Background()
	author := seedUser(t, s, "author@example.com")
	p := seedPost(t, s, author.ID, "popular", true)
	other := seedPost(t, s, author.ID, "other", true)

	var likes []model.Like
	for i := range 4 {
		u := seedUser(t, s, fmt.Sprintf("fan%d@example.com", i))
		l, err := s.Likes.CreateLike(ctx, u.ID, p.ID)
		require.NoError(t, err)
		likes = append(likes, l)
	}
	_, err := s.Likes.CreateLike(ctx, author.ID, other.ID)
	require.NoError(t, err)

	likeIDs := func(ls []model.Like) []int64 {
		return lo.Map(ls, func(l model.Like, _ int) int64 { return l.ID })
	}

	rows, err := s.Likes.ListLikes(ctx, storage.ListLikesParams{
		PostID: p.ID,
		Window: pagination.Window{Direction: pagination.Forward, Size: 2, Cursor: likes[0].ID},
	})
	require.NoError(t, err)
	require.Equal(t, likeIDs(likes[1:4]), likeIDs(rows))

	rows, err = s.Likes.ListLikes(ctx, storage.ListLikesParams{
		PostID: p.ID,
		Window: pagination.Window{Direction: pagination.Backward, Size: 2, Cursor: likes[3].ID},
	})
	require.NoError(t, err)
	require.Equal(t, likeIDs(likes[0:3]), likeIDs(rows))
}
