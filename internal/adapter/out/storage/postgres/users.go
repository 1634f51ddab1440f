package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postgraph/internal/adapter/out/storage"
	"postgraph/internal/model"
	"postgraph/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type UserStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewUserStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{
		db:     db,
		getter: getter,
	}
}

func scanUser(row scanner, u *model.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Firstname, &u.Lastname, &u.CreatedAt, &u.UpdatedAt)
}

func (s *UserStorage) CreateUser(ctx context.Context, in model.User) (model.User, error) {
	var out model.User

	query, args, err := psql.
		Insert(tableinfo.UsersTableName).
		Columns(tableinfo.UserEmailColumn, tableinfo.UserFirstnameColumn, tableinfo.UserLastnameColumn).
		Values(in.Email, in.Firstname, in.Lastname).
		Suffix("RETURNING " + strings.Join(tableinfo.UserColumns(), ", ")).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanUser(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if isUniqueViolation(err) {
			return out, storage.ErrUniqueViolation
		}
		return out, fmt.Errorf("exec insert user: %w", err)
	}
	return out, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	var out model.User

	query, args, err := psql.
		Select(tableinfo.UserColumns()...).
		From(tableinfo.UsersTableName).
		Where(sq.Eq{tableinfo.UserIDColumn: userID}).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanUser(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, storage.ErrNotFound
		}
		return out, fmt.Errorf("exec select user by id: %w", err)
	}
	return out, nil
}
