package storage

import (
	"testing"

	"postgraph/pkg/pagination"

	"github.com/stretchr/testify/require"
)

func TestResolvePostOrder(t *testing.T) {
	t.Parallel()

	o, err := ResolvePostOrder("", false)
	require.NoError(t, err)
	require.Equal(t, Order{Column: "id"}, o)

	o, err = ResolvePostOrder("createdAt", true)
	require.NoError(t, err)
	require.Equal(t, Order{Column: "created_at", Desc: true}, o)

	_, err = ResolvePostOrder("title; DROP TABLE posts", false)
	require.ErrorIs(t, err, ErrUnknownSort)
}

func TestKeysetCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		order     Order
		dir       pagination.Direction
		wantCond  string
		wantOrder []string
	}{
		{
			name:      "id asc forward",
			order:     Order{Column: "id"},
			dir:       pagination.Forward,
			wantCond:  "id > ?",
			wantOrder: []string{"id ASC"},
		},
		{
			name:      "id asc backward",
			order:     Order{Column: "id"},
			dir:       pagination.Backward,
			wantCond:  "id < ?",
			wantOrder: []string{"id DESC"},
		},
		{
			name:      "title desc forward",
			order:     Order{Column: "title", Desc: true},
			dir:       pagination.Forward,
			wantCond:  "(title, id) < (SELECT title, id FROM posts WHERE id = ?)",
			wantOrder: []string{"title DESC", "id DESC"},
		},
		{
			name:      "created_at asc backward",
			order:     Order{Column: "created_at"},
			dir:       pagination.Backward,
			wantCond:  "(created_at, id) < (SELECT created_at, id FROM posts WHERE id = ?)",
			wantOrder: []string{"created_at DESC", "id DESC"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.wantCond, KeysetCondition("posts", tt.order, tt.dir))
			_, order := tt.order.Seek(tt.dir)
			require.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestContainsPattern(t *testing.T) {
	t.Parallel()

	require.Equal(t, "%%", ContainsPattern(""))
	require.Equal(t, "%go%", ContainsPattern("go"))
	require.Equal(t, `%100\%\_done\\%`, ContainsPattern(`100%_done\`))
}
