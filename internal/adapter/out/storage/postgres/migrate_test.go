package postgres

import (
	"io"
	"log/slog"
	"testing"

	"postgraph/migrations"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "postgres://u:p@db:5432/app?sslmode=disable", want: "pgx5://u:p@db:5432/app?sslmode=disable"},
		{dsn: "postgresql://u@db/app", want: "pgx5://u@db/app"},
		{dsn: "pgx5://u@db/app", want: "pgx5://u@db/app"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.dsn, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, MigrateURL(tt.dsn))
		})
	}
}

func TestMigrations_EmbeddedSource(t *testing.T) {
	t.Parallel()

	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	first, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), first)

	up, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	require.Equal(t, "init", ident)
	body, err := io.ReadAll(up)
	require.NoError(t, err)
	require.Contains(t, string(body), "CREATE TABLE")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	require.NoError(t, down.Close())
}

func TestNewMigrator_Unreachable(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewMigrator(migrations.FS, "postgres://u:p@127.0.0.1:1/app?sslmode=disable&connect_timeout=1", log)
	require.Error(t, err)
}
