// database/connection.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gewnthar/arrivals/config"
	"github.com/go-sql-driver/mysql" // MariaDB/MySQL driver
	_ "modernc.org/sqlite"           // SQLite driver, registered as "sqlite"
)

var (
	DB     *sql.DB
	driver string
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS arrivals (
		home_airport   VARCHAR(8)   NOT NULL,
		flight_date    VARCHAR(10)  NOT NULL,
		flight         VARCHAR(32)  NOT NULL,
		scheduled_at   VARCHAR(32)  NULL,
		scheduled_unix BIGINT       NULL,
		actual_at      VARCHAR(32)  NULL,
		actual_unix    BIGINT       NULL,
		gate           VARCHAR(16)  NOT NULL DEFAULT '',
		airport        VARCHAR(8)   NOT NULL DEFAULT '',
		city           VARCHAR(128) NOT NULL DEFAULT '',
		country        VARCHAR(8)   NOT NULL DEFAULT '',
		latitude       DOUBLE       NULL,
		longitude      DOUBLE       NULL,
		display_name   VARCHAR(255) NOT NULL DEFAULT '',
		status         VARCHAR(32)  NOT NULL DEFAULT '',
		distance_km    DOUBLE       NULL,
		PRIMARY KEY (home_airport, flight_date, flight)
	)`,
	`CREATE TABLE IF NOT EXISTS collection_runs (
		run_key       VARCHAR(32) NOT NULL PRIMARY KEY,
		home_airport  VARCHAR(8)  NOT NULL,
		captured_at   VARCHAR(32) NOT NULL,
		captured_unix BIGINT      NOT NULL,
		label_count   INT         NOT NULL,
		row_count     INT         NOT NULL
	)`,
}

// mysqlDSN builds the MariaDB/MySQL connection string.
func mysqlDSN(cfg config.DatabaseConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	c.DBName = cfg.DBName
	c.ParseTime = true
	return c.FormatDSN()
}

// InitDB opens the connection pool for the configured driver, verifies it and
// creates the export tables if they are missing.
func InitDB(cfg config.DatabaseConfig) error {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case "mysql":
		db, err = sql.Open("mysql", mysqlDSN(cfg))
		if err != nil {
			return fmt.Errorf("failed to open database connection: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "arrivals.db"
		}
		db, err = sql.Open("sqlite", path)
		if err != nil {
			return fmt.Errorf("failed to open database connection: %w", err)
		}
		// one writer, and ":memory:" databases live per connection
		db.SetMaxOpenConns(1)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return err
	}

	DB, driver = db, cfg.Driver
	slog.Info("connected to the database", "component", "database", "driver", cfg.Driver)
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Ping reports whether the database is reachable.
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	return DB.PingContext(ctx)
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		DB.Close()
		DB, driver = nil, ""
		slog.Info("database connection closed", "component", "database")
	}
}
