package postgres

import (
	"fmt"
	"slices"

	"postgraph/internal/adapter/out/storage"
	"postgraph/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func publishedPostsWhere(f storage.PostFilter) sq.And {
	where := sq.And{sq.Eq{tableinfo.PostPublishedColumn: true}}
	if f.Query != "" {
		where = append(where, sq.Like{tableinfo.PostTitleColumn: storage.ContainsPattern(f.Query)})
	}
	return where
}

// listPostsQuery selects one window of published posts. Backward windows come
// out in inverted order.
func listPostsQuery(params storage.ListPostsParams) (sq.SelectBuilder, error) {
	if !slices.Contains(lo.Values(tableinfo.PostSortColumns), params.Order.Col()) {
		return sq.SelectBuilder{}, fmt.Errorf("%w: %q", storage.ErrUnknownSort, params.Order.Column)
	}

	w := params.Window
	_, orderBy := params.Order.Seek(w.Direction)

	qb := psql.
		Select(tableinfo.PostColumns()...).
		From(tableinfo.PostsTableName).
		Where(publishedPostsWhere(params.Filter)).
		OrderBy(orderBy...).
		Limit(uint64(w.Fetch()))

	if w.HasCursor() {
		qb = qb.Where(sq.Expr(storage.KeysetCondition(tableinfo.PostsTableName, params.Order, w.Direction), w.Cursor))
	}
	return qb, nil
}

func countPostsQuery(f storage.PostFilter) sq.SelectBuilder {
	return psql.
		Select("COUNT(*)").
		From(tableinfo.PostsTableName).
		Where(publishedPostsWhere(f))
}

func listLikesQuery(params storage.ListLikesParams) sq.SelectBuilder {
	w := params.Window
	op, orderBy := storage.OrderByID.Seek(w.Direction)

	qb := psql.
		Select(tableinfo.LikeColumns()...).
		From(tableinfo.LikesTableName).
		Where(sq.Eq{tableinfo.LikePostIDColumn: params.PostID}).
		OrderBy(orderBy...).
		Limit(uint64(w.Fetch()))

	if w.HasCursor() {
		qb = qb.Where(sq.Expr(tableinfo.LikeIDColumn+" "+op+" ?", w.Cursor))
	}
	return qb
}
