package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 2
	defaultConnLifetime = 30 * time.Minute
	defaultConnIdleTime = 5 * time.Minute
	defaultPingTimeout  = 5 * time.Second
)

// Open returns a pgx/stdlib backed pool for the hosted backend's Postgres
// and pings it before handing it out.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("db: empty DSN")
	}

	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(defaultMaxOpenConns)
	pool.SetMaxIdleConns(defaultMaxIdleConns)
	pool.SetConnMaxLifetime(defaultConnLifetime)
	pool.SetConnMaxIdleTime(defaultConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
