package storage

import (
	"errors"
	"fmt"
	"strings"

	"postgraph/pkg/pagination"
	"postgraph/pkg/tableinfo"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUniqueViolation = errors.New("unique violation")
	ErrBuildingQuery   = errors.New("error building sql-query")
	ErrUnknownSort     = errors.New("unknown sort field")
)

// Order is a resolved sort: a real column name and a direction.
// The id column is always appended as a tie breaker.
type Order struct {
	Column string
	Desc   bool
}

var OrderByID = Order{Column: tableinfo.PostIDColumn}

// ResolvePostOrder maps an API sort field onto a posts column.
// An empty field sorts by id.
func ResolvePostOrder(field string, desc bool) (Order, error) {
	if field == "" {
		return Order{Column: tableinfo.PostIDColumn, Desc: desc}, nil
	}
	col, ok := tableinfo.PostSortColumns[field]
	if !ok {
		return Order{}, fmt.Errorf("%w: %q", ErrUnknownSort, field)
	}
	return Order{Column: col, Desc: desc}, nil
}

func (o Order) ByID() bool {
	return o.Col() == tableinfo.PostIDColumn
}

// Col is the sort column, id for the zero Order.
func (o Order) Col() string {
	if o.Column == "" {
		return tableinfo.PostIDColumn
	}
	return o.Column
}

// Seek returns the comparison operator and the ORDER BY terms for reading
// a window in direction d. Backward windows read the sort inverted, callers
// reverse the rows afterwards.
func (o Order) Seek(d pagination.Direction) (string, []string) {
	desc := o.Desc
	if d == pagination.Backward {
		desc = !desc
	}
	op, dir := ">", "ASC"
	if desc {
		op, dir = "<", "DESC"
	}
	if o.ByID() {
		return op, []string{tableinfo.PostIDColumn + " " + dir}
	}
	return op, []string{o.Column + " " + dir, tableinfo.PostIDColumn + " " + dir}
}

// KeysetCondition renders the boundary predicate for a window that starts
// after the row with the cursor id. It carries a single ? placeholder.
// When the cursor row is gone the sub-select yields NULL and nothing matches.
func KeysetCondition(table string, o Order, d pagination.Direction) string {
	op, _ := o.Seek(d)
	if o.ByID() {
		return fmt.Sprintf("%s %s ?", tableinfo.PostIDColumn, op)
	}
	return fmt.Sprintf("(%[1]s, %[2]s) %[3]s (SELECT %[1]s, %[2]s FROM %[4]s WHERE %[2]s = ?)",
		o.Column, tableinfo.PostIDColumn, op, table)
}

type PostFilter struct {
	// Query is matched as a substring of the title.
	Query string
}

type ListPostsParams struct {
	Filter PostFilter
	Order  Order
	Window pagination.Window
}

type ListLikesParams struct {
	PostID int64
	Window pagination.Window
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching s anywhere, with LIKE
// wildcards in s taken literally.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
