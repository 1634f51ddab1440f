package gormstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/pagination"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockDB struct {
	dialect string
	db      *gorm.DB
	mock    sqlmock.Sqlmock
}

func newMock(t *testing.T, dialect string) mockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	var d gorm.Dialector
	switch dialect {
	case DialectMySQL:
		d = gormmysql.New(gormmysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true})
	default:
		d = postgres.New(postgres.Config{Conn: sqlDB})
	}

	db, err := gorm.Open(d, Config(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return mockDB{dialect: dialect, db: db, mock: mock}
}

var dialects = []string{DialectPostgres, DialectMySQL}

var placeholder = regexp.MustCompile(`\\\$\d+`)

// sqlRe turns postgres flavoured SQL into a pattern that also matches the
// mysql rendering: either identifier quote, either placeholder style.
func sqlRe(s string) string {
	re := regexp.QuoteMeta(s)
	re = strings.ReplaceAll(re, `"`, "[`\"]")
	return placeholder.ReplaceAllLiteralString(re, `(?:\$\d+|\?)`)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "postgres 23505", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "postgres fk", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "mysql 1062", err: &mysql.MySQLError{Number: 1062}, want: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1452}, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestDialector(t *testing.T) {
	t.Parallel()

	d, err := Dialector(DialectPostgres, "host=localhost")
	require.NoError(t, err)
	require.Equal(t, "postgres", d.Name())

	d, err = Dialector(DialectMySQL, "root@tcp(localhost:3306)/db")
	require.NoError(t, err)
	require.Equal(t, "mysql", d.Name())

	_, err = Dialector("sqlite", "")
	require.ErrorIs(t, err, ErrUnknownDialect)
}

func TestPostStorage_CreatePost(t *testing.T) {
	t.Parallel()

	for _, dialect := range dialects {
		dialect := dialect
		t.Run(dialect, func(t *testing.T) {
			t.Parallel()
			m := newMock(t, dialect)
			args := []driver.Value{"t", "c", true, int64(7), sqlmock.AnyArg(), sqlmock.AnyArg()}
			if dialect == DialectMySQL {
				m.mock.ExpectExec(sqlRe(`INSERT INTO "posts"`)).
					WithArgs(args...).
					WillReturnResult(sqlmock.NewResult(5, 1))
			} else {
				m.mock.ExpectQuery(sqlRe(`INSERT INTO "posts"`)).
					WithArgs(args...).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
			}

			got, err := NewPostStorage(m.db).CreatePost(context.Background(),
				model.Post{Title: "t", Content: "c", Published: true, AuthorID: 7})
			require.NoError(t, err)
			require.Equal(t, int64(5), got.ID)
			require.Equal(t, int64(7), got.AuthorID)
			require.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestLikeStorage_CreateLike_Duplicate(t *testing.T) {
	t.Parallel()

	for _, dialect := range dialects {
		dialect := dialect
		t.Run(dialect, func(t *testing.T) {
			t.Parallel()
			m := newMock(t, dialect)
			if dialect == DialectMySQL {
				m.mock.ExpectExec(sqlRe(`INSERT INTO "likes"`)).
					WithArgs(int64(1), int64(3), sqlmock.AnyArg()).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			} else {
				m.mock.ExpectQuery(sqlRe(`INSERT INTO "likes"`)).
					WithArgs(int64(1), int64(3), sqlmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			}

			_, err := NewLikeStorage(m.db).CreateLike(context.Background(), 1, 3)
			require.ErrorIs(t, err, storage.ErrUniqueViolation)
		})
	}
}

func TestPostStorage_ListPublishedPosts(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cols := []string{"id", "title", "content", "published", "author_id", "created_at", "updated_at"}

	tests := []struct {
		name     string
		params   storage.ListPostsParams
		wantSQL  string
		mysqlSQL string // overrides wantSQL on mysql
		args     []driver.Value
		rows     []int64
		wantIDs  []int64
		wantErr  error
	}{
		{
			name: "first page filtered",
			params: storage.ListPostsParams{
				Filter: storage.PostFilter{Query: "go"},
				Window: pagination.Window{Direction: pagination.Forward, Size: 2},
			},
			wantSQL:  `SELECT * FROM "posts" WHERE published = $1 AND title LIKE $2 ORDER BY id ASC`,
			mysqlSQL: `SELECT * FROM "posts" WHERE published = $1 AND CAST(title AS BINARY) LIKE $2 ORDER BY id ASC`,
			args:     []driver.Value{true, "%go%"},
			rows:     []int64{1, 2, 3},
			wantIDs:  []int64{1, 2, 3},
		},
		{
			name: "backward by created_at desc",
			params: storage.ListPostsParams{
				Order:  storage.Order{Column: "created_at", Desc: true},
				Window: pagination.Window{Direction: pagination.Backward, Size: 2, Cursor: 9},
			},
			wantSQL: `SELECT * FROM "posts" WHERE published = $1 AND (created_at, id) > ` +
				`(SELECT created_at, id FROM posts WHERE id = $2) ORDER BY created_at ASC, id ASC`,
			args:    []driver.Value{true, int64(9)},
			rows:    []int64{10, 11},
			wantIDs: []int64{11, 10},
		},
		{
			name: "unlisted column",
			params: storage.ListPostsParams{
				Order:  storage.Order{Column: "author_id"},
				Window: pagination.Window{Size: 1},
			},
			wantErr: storage.ErrUnknownSort,
		},
	}

	for _, dialect := range dialects {
		for _, tt := range tests {
			dialect, tt := dialect, tt
			t.Run(dialect+" "+tt.name, func(t *testing.T) {
				t.Parallel()
				m := newMock(t, dialect)
				if tt.wantErr == nil {
					rows := sqlmock.NewRows(cols)
					for _, id := range tt.rows {
						rows.AddRow(id, "t", "c", true, int64(1), now, now)
					}
					want := tt.wantSQL
					if dialect == DialectMySQL && tt.mysqlSQL != "" {
						want = tt.mysqlSQL
					}
					m.mock.ExpectQuery(sqlRe(want)).WithArgs(tt.args...).WillReturnRows(rows)
				}

				out, err := NewPostStorage(m.db).ListPublishedPosts(context.Background(), tt.params)
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					return
				}
				require.NoError(t, err)

				ids := make([]int64, 0, len(out))
				for _, p := range out {
					ids = append(ids, p.ID)
				}
				require.Equal(t, tt.wantIDs, ids)
			})
		}
	}
}

func TestPostStorage_CountPublishedPosts(t *testing.T) {
	t.Parallel()

	m := newMock(t, DialectPostgres)
	m.mock.ExpectQuery(sqlRe(`SELECT count(*) FROM "posts" WHERE published = $1`)).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := NewPostStorage(m.db).CountPublishedPosts(context.Background(), storage.PostFilter{})
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestUserStorage_GetUserByID_NotFound(t *testing.T) {
	t.Parallel()

	for _, dialect := range dialects {
		dialect := dialect
		t.Run(dialect, func(t *testing.T) {
			t.Parallel()
			m := newMock(t, dialect)
			m.mock.ExpectQuery(sqlRe(`SELECT * FROM "users" WHERE id = $1`)).
				WithArgs(int64(2)).
				WillReturnRows(sqlmock.NewRows([]string{"id"}))

			_, err := NewUserStorage(m.db).GetUserByID(context.Background(), 2)
			require.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestLikeStorage_ListLikes_Backward(t *testing.T) {
	t.Parallel()

	m := newMock(t, DialectPostgres)
	now := time.Now()
	m.mock.ExpectQuery(sqlRe(`SELECT * FROM "likes" WHERE post_id = $1 AND id < $2 ORDER BY id DESC`)).
		WithArgs(int64(3), int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "created_at"}).
			AddRow(int64(3), int64(1), int64(3), now).
			AddRow(int64(2), int64(2), int64(3), now))

	out, err := NewLikeStorage(m.db).ListLikes(context.Background(), storage.ListLikesParams{
		PostID: 3,
		Window: pagination.Window{Direction: pagination.Backward, Size: 2, Cursor: 4},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, int64(2), out[0].ID)
	require.Equal(t, int64(3), out[1].ID)
}

func TestTxManager(t *testing.T) {
	t.Parallel()

	t.Run("commit", func(t *testing.T) {
		t.Parallel()
		m := newMock(t, DialectPostgres)
		m.mock.ExpectBegin()
		m.mock.ExpectExec(sqlRe(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
			WithArgs(int64(1), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		m.mock.ExpectQuery(sqlRe(`SELECT count(*) FROM "likes" WHERE post_id = $1`)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		m.mock.ExpectCommit()

		likes := NewLikeStorage(m.db)
		err := NewTxManager(m.db).Do(context.Background(), func(ctx context.Context) error {
			n, err := likes.DeleteLike(ctx, 1, 3)
			if err != nil {
				return err
			}
			require.Equal(t, int64(1), n)
			_, err = likes.CountLikes(ctx, 3)
			return err
		})
		require.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		t.Parallel()
		m := newMock(t, DialectMySQL)
		m.mock.ExpectBegin()
		m.mock.ExpectRollback()

		boom := errors.New("boom")
		err := NewTxManager(m.db).Do(context.Background(), func(context.Context) error { return boom })
		require.ErrorIs(t, err, boom)
	})

	t.Run("nested joins outer", func(t *testing.T) {
		t.Parallel()
		m := newMock(t, DialectPostgres)
		m.mock.ExpectBegin()
		m.mock.ExpectCommit()

		tx := NewTxManager(m.db)
		err := tx.Do(context.Background(), func(ctx context.Context) error {
			return tx.Do(ctx, func(context.Context) error { return nil })
		})
		require.NoError(t, err)
	})
}
