package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/pagination"
	"postgraph/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type LikeStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewLikeStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *LikeStorage {
	return &LikeStorage{
		db:     db,
		getter: getter,
	}
}

func scanLike(row scanner, l *model.Like) error {
	return row.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt)
}

func pairEq(userID, postID int64) sq.Eq {
	return sq.Eq{
		tableinfo.LikeUserIDColumn: userID,
		tableinfo.LikePostIDColumn: postID,
	}
}

func (s *LikeStorage) CreateLike(ctx context.Context, userID, postID int64) (model.Like, error) {
	var out model.Like

	query, args, err := psql.
		Insert(tableinfo.LikesTableName).
		Columns(tableinfo.LikeUserIDColumn, tableinfo.LikePostIDColumn).
		Values(userID, postID).
		Suffix("RETURNING " + strings.Join(tableinfo.LikeColumns(), ", ")).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanLike(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if isUniqueViolation(err) {
			return out, storage.ErrUniqueViolation
		}
		return out, fmt.Errorf("exec insert like: %w", err)
	}
	return out, nil
}

func (s *LikeStorage) GetLike(ctx context.Context, userID, postID int64) (model.Like, error) {
	var out model.Like

	query, args, err := psql.
		Select(tableinfo.LikeColumns()...).
		From(tableinfo.LikesTableName).
		Where(pairEq(userID, postID)).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanLike(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, storage.ErrNotFound
		}
		return out, fmt.Errorf("exec select like: %w", err)
	}
	return out, nil
}

func (s *LikeStorage) DeleteLike(ctx context.Context, userID, postID int64) (int64, error) {
	query, args, err := psql.
		Delete(tableinfo.LikesTableName).
		Where(pairEq(userID, postID)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec delete like: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *LikeStorage) CountLikes(ctx context.Context, postID int64) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From(tableinfo.LikesTableName).
		Where(sq.Eq{tableinfo.LikePostIDColumn: postID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	var n int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("exec count likes: %w", err)
	}
	return int(n), nil
}

func (s *LikeStorage) ListLikes(ctx context.Context, params storage.ListLikesParams) ([]model.Like, error) {
	query, args, err := listLikesQuery(params).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select likes: %w", err)
	}
	defer rows.Close()

	out := make([]model.Like, 0, params.Window.Fetch())
	for rows.Next() {
		var l model.Like
		if err := scanLike(rows, &l); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if params.Window.Direction == pagination.Backward {
		pagination.Reverse(out)
	}
	return out, nil
}
