package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator applies the NNNN_name.up.sql / .down.sql pairs of an embedded
// source through golang-migrate's pgx/v5 driver.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens a migration session against dsn, a postgres:// URL.
func NewMigrator(src fs.FS, dsn string, log *slog.Logger) (*Migrator, error) {
	files, err := iofs.New(src, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", files, MigrateURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("open migrate: %w", err)
	}
	m.Log = migrateLogger{log: log}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration and returns the resulting version.
func (m *Migrator) Up(ctx context.Context) (uint, error) {
	defer m.stopOnCancel(ctx)()

	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate up: %w", err)
	}
	return m.Version()
}

// Down reverts the latest applied migration and returns the version left.
// It is a no-op on an empty schema.
func (m *Migrator) Down(ctx context.Context) (uint, error) {
	defer m.stopOnCancel(ctx)()

	if _, err := m.Version(); errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	if err := m.m.Steps(-1); err != nil {
		return 0, fmt.Errorf("migrate down: %w", err)
	}
	v, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	return v, err
}

// Version reports the applied version. A dirty schema is an error.
func (m *Migrator) Version() (uint, error) {
	v, dirty, err := m.m.Version()
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// stopOnCancel asks golang-migrate to stop after the running migration once
// ctx is done.
func (m *Migrator) stopOnCancel(ctx context.Context) func() bool {
	return context.AfterFunc(ctx, func() {
		select {
		case m.m.GracefulStop <- true:
		default:
		}
	})
}

// MigrateURL rewrites a postgres URL to the scheme of the pgx/v5 migrate driver.
func MigrateURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

type migrateLogger struct {
	log *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "migrate"))
}

func (l migrateLogger) Verbose() bool { return false }
