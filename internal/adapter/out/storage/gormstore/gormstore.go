// Package gormstore keeps users, posts and likes through GORM, on either
// the postgres or the mysql dialector.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
	slowQueryThreshold  = 200 * time.Millisecond
)

var ErrUnknownDialect = errors.New("unknown gorm dialect")

// Dialector picks the GORM driver for dialect.
func Dialector(dialect, dsn string) (gorm.Dialector, error) {
	switch dialect {
	case DialectPostgres:
		return postgres.Open(dsn), nil
	case DialectMySQL:
		return gormmysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}
}

// Config is the GORM configuration every store in this package expects.
func Config(log *slog.Logger) *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
		Logger: logger.New(slogWriter{log: log}, logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func Open(d gorm.Dialector, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(d, Config(log))
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the users, posts and likes tables.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&userRow{}, &postRow{}, &likeRow{})
}

type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Warn(fmt.Sprintf(format, args...), slog.String("component", "gorm"))
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

type txKey struct{}

// TxManager runs fn inside a GORM transaction. Stores pick the transaction
// up from the context, nested calls join the outer one.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
