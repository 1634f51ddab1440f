package pagination

import "slices"

type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

type Edge[T any] struct {
	Cursor string
	Node   T
}

type Connection[T any] struct {
	Edges      []Edge[T]
	TotalCount int
	PageInfo   PageInfo
}

func (c Connection[T]) Nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

// Assemble builds a connection from rows read with w.Fetch() as limit.
// Rows must already be in the requested order; for a backward window the
// over-fetched record, if any, is therefore the first one.
func Assemble[T any](w Window, rows []T, total int, idOf func(T) int64) Connection[T] {
	conn := Connection[T]{TotalCount: total}

	extra := len(rows) > w.Size
	switch w.Direction {
	case Backward:
		if extra {
			rows = rows[len(rows)-w.Size:]
		}
		conn.PageInfo.HasPreviousPage = extra
		conn.PageInfo.HasNextPage = w.HasCursor()
	default:
		if extra {
			rows = rows[:w.Size]
		}
		conn.PageInfo.HasNextPage = extra
		conn.PageInfo.HasPreviousPage = w.HasCursor()
	}

	conn.Edges = make([]Edge[T], 0, len(rows))
	for _, r := range rows {
		conn.Edges = append(conn.Edges, Edge[T]{Cursor: EncodeCursor(idOf(r)), Node: r})
	}
	if len(conn.Edges) > 0 {
		start, end := conn.Edges[0].Cursor, conn.Edges[len(conn.Edges)-1].Cursor
		conn.PageInfo.StartCursor, conn.PageInfo.EndCursor = &start, &end
	}
	return conn
}

// Reverse flips rows read in inverted sort order back into requested order.
func Reverse[T any](rows []T) []T {
	slices.Reverse(rows)
	return rows
}
