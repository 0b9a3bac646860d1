package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres-only column types (uuid, text[], jsonb, vector) are declared as
// text so the same models round-trip through sqlite.
var sqliteSchema = []string{
	`CREATE TABLE trips (
		id text PRIMARY KEY,
		created_at integer,
		updated_at integer,
		deleted_at datetime,
		user_id text NOT NULL,
		title text,
		destination text NOT NULL,
		origin text,
		start_date date NOT NULL,
		end_date date NOT NULL,
		budget real,
		currency text,
		travelers integer,
		adults integer,
		children integer,
		preference_tags text,
		notes text,
		status text,
		itinerary text,
		embedding text
	)`,
	`CREATE TABLE expenses (
		id text PRIMARY KEY,
		created_at integer,
		updated_at integer,
		deleted_at datetime,
		trip_id text NOT NULL,
		user_id text NOT NULL,
		category text NOT NULL,
		amount real NOT NULL,
		currency text,
		spent_on date NOT NULL,
		payment_method text,
		notes text
	)`,
	`CREATE TABLE user_profiles (
		user_id text PRIMARY KEY,
		username text,
		avatar_url text,
		preferences text,
		created_at integer,
		updated_at integer
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, ddl := range sqliteSchema {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}
