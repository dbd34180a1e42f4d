package scratchgame

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

var (
	dbOnce sync.Once
	dbConn *sql.DB
	dbErr  error
)

// GetDB opens the shared Postgres pool on first use. An empty dsn disables the
// database: GetDB then returns nil, nil and callers fall back to the JSON files.
func GetDB(dsn string) (*sql.DB, error) {
	dbOnce.Do(func() {
		if dsn == "" {
			return
		}
		dbConn, dbErr = OpenDB(dsn)
	})
	if dbErr != nil {
		return nil, dbErr
	}
	return dbConn, nil
}

// OpenDB opens and pings a new pool for dsn.
func OpenDB(dsn string) (*sql.DB, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	// Avoid "prepared statement already exists" with PgBouncer/Supabase: use simple protocol (no server-side prepared statements).
	config.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	db := stdlib.OpenDB(*config)
	// Pool settings for Supabase/Render: idle timeout 4m, limit open conns for pooler
	db.SetConnMaxIdleTime(4 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
