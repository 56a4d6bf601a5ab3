// Package store is the relational layer over the revenue-disclosure and
// price-bar tables. All SQL here is parameterized; period filters are bound
// from the fiscal mapper's output, never rebuilt inline.
package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the connection pool from the DATABASE_URL environment
// variable. DB_MAX_CONNS optionally caps the pool; the Supabase pooler the
// upstream data lives behind tolerates few connections per client.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		if raw := os.Getenv("DB_MAX_CONNS"); raw != "" {
			if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
				config.MaxConns = int32(n)
			}
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
	})
	return err
}

// GetPool returns the database connection pool
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}
