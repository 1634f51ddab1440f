package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func idOf(v int64) int64 { return v }

func TestAssemble(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		window       Window
		rows         []int64
		wantIDs      []int64
		wantNext     bool
		wantPrevious bool
	}{
		{
			name:     "forward with extra row",
			window:   Window{Direction: Forward, Size: 2},
			rows:     []int64{1, 2, 3},
			wantIDs:  []int64{1, 2},
			wantNext: true,
		},
		{
			name:         "forward after cursor, last page",
			window:       Window{Direction: Forward, Size: 2, Cursor: 2},
			rows:         []int64{3, 4},
			wantIDs:      []int64{3, 4},
			wantPrevious: true,
		},
		{
			name:         "backward with extra row drops the first",
			window:       Window{Direction: Backward, Size: 2, Cursor: 5},
			rows:         []int64{2, 3, 4},
			wantIDs:      []int64{3, 4},
			wantNext:     true,
			wantPrevious: true,
		},
		{
			name:    "backward from the end, exact",
			window:  Window{Direction: Backward, Size: 3},
			rows:    []int64{1, 2, 3},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "empty",
			window:  Window{Direction: Forward, Size: 5},
			rows:    nil,
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			conn := Assemble(tt.window, tt.rows, 42, idOf)

			require.Equal(t, 42, conn.TotalCount)
			require.Equal(t, tt.wantIDs, conn.Nodes())
			require.Equal(t, tt.wantNext, conn.PageInfo.HasNextPage)
			require.Equal(t, tt.wantPrevious, conn.PageInfo.HasPreviousPage)

			if len(tt.wantIDs) == 0 {
				require.Nil(t, conn.PageInfo.StartCursor)
				require.Nil(t, conn.PageInfo.EndCursor)
				return
			}
			for i, e := range conn.Edges {
				require.Equal(t, EncodeCursor(tt.wantIDs[i]), e.Cursor)
			}
			require.Equal(t, EncodeCursor(tt.wantIDs[0]), *conn.PageInfo.StartCursor)
			require.Equal(t, EncodeCursor(tt.wantIDs[len(tt.wantIDs)-1]), *conn.PageInfo.EndCursor)
		})
	}
}

func TestReverse(t *testing.T) {
	t.Parallel()
	require.Equal(t, []int64{3, 2, 1}, Reverse([]int64{1, 2, 3}))
}
