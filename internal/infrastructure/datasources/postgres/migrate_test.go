package postgres

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(embedMigrations, "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		body, err := fs.ReadFile(embedMigrations, f)
		require.NoError(t, err)
		require.Contains(t, string(body), "-- +goose Up", f)
		require.Contains(t, string(body), "-- +goose Down", f)
	}
}

func TestRunMigrations_RejectsUnknownCommand(t *testing.T) {
	err := RunMigrations(context.Background(), nil, "redo")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported migration command")
}

func TestRunMigrations_StatusOnFreshDatabase(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, runMigrations(context.Background(), sqlDB, "sqlite3", MigrateStatus))

	var tables int
	require.NoError(t, sqlDB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='goose_db_version'").Scan(&tables))
	require.Equal(t, 1, tables)
}
