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

type PostStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewPostStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{
		db:     db,
		getter: getter,
	}
}

func scanPost(row scanner, p *model.Post) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Published,
		&p.AuthorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	var out model.Post

	query, args, err := psql.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTitleColumn,
			tableinfo.PostContentColumn,
			tableinfo.PostPublishedColumn,
			tableinfo.PostAuthorIDColumn,
		).
		Values(in.Title, in.Content, in.Published, in.AuthorID).
		Suffix("RETURNING " + strings.Join(tableinfo.PostColumns(), ", ")).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanPost(tr.QueryRow(ctx, query, args...), &out); err != nil {
		return out, fmt.Errorf("exec insert post: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	var out model.Post

	query, args, err := psql.
		Select(tableinfo.PostColumns()...).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanPost(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, storage.ErrNotFound
		}
		return out, fmt.Errorf("exec select post by id: %w", err)
	}
	return out, nil
}

func (s *PostStorage) ListPublishedPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, error) {
	qb, err := listPostsQuery(params)
	if err != nil {
		return nil, err
	}
	posts, err := s.selectPosts(ctx, qb, params.Window.Fetch())
	if err != nil {
		return nil, err
	}
	if params.Window.Direction == pagination.Backward {
		pagination.Reverse(posts)
	}
	return posts, nil
}

func (s *PostStorage) CountPublishedPosts(ctx context.Context, filter storage.PostFilter) (int, error) {
	query, args, err := countPostsQuery(filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	var n int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("exec count posts: %w", err)
	}
	return int(n), nil
}

func (s *PostStorage) GetPublishedPostsByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	qb := psql.
		Select(tableinfo.PostColumns()...).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{
			tableinfo.PostAuthorIDColumn:  authorID,
			tableinfo.PostPublishedColumn: true,
		}).
		OrderBy(tableinfo.PostIDColumn + " ASC")

	return s.selectPosts(ctx, qb, 0)
}

func (s *PostStorage) selectPosts(ctx context.Context, qb sq.SelectBuilder, sizeHint int) ([]model.Post, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0, sizeHint)
	for rows.Next() {
		var p model.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
