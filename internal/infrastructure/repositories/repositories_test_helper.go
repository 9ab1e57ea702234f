package repositories

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open sqlite")

	// one connection serialises transactions the way row locks do on postgres
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createAreaTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE areas (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		initials TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPackageTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE packages (
		id TEXT PRIMARY KEY,
		origin_area_id TEXT,
		destination_area_id TEXT,
		sequence_number INTEGER,
		code TEXT UNIQUE,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (origin_area_id, destination_area_id, sequence_number)
	);`)
	mustExec(t, db, `CREATE TABLE route_sequences (
		id TEXT PRIMARY KEY,
		origin_area_id TEXT NOT NULL,
		destination_area_id TEXT NOT NULL,
		last_sequence INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (origin_area_id, destination_area_id)
	);`)
}

func createUserTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE user_roles (
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		PRIMARY KEY (user_id, role)
	);`)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL UNIQUE,
		wallet_type TEXT NOT NULL,
		balance TEXT NOT NULL DEFAULT '0',
		pending_balance TEXT NOT NULL DEFAULT '0',
		total_credited TEXT NOT NULL DEFAULT '0',
		total_debited TEXT NOT NULL DEFAULT '0',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
