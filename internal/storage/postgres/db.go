// Package postgres implements the resume and job stores on PostgreSQL with
// pgvector columns for embeddings.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// Options configures the connection pool.
type Options struct {
	URL      string
	MaxConns int32
	// SimpleProtocol disables the statement cache, required behind PgBouncer
	// in transaction mode.
	SimpleProtocol bool
	// SkipVectorTypes must be set before the vector extension exists, i.e.
	// when running migrations on an empty database.
	SkipVectorTypes bool
}

// Connect creates and verifies a pgxpool connection pool.
func Connect(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, errors.New("database url is required")
	}

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	config.MaxConnLifetime = time.Hour

	if opts.SimpleProtocol {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec
	}

	if !opts.SkipVectorTypes {
		config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			return pgxvec.RegisterTypes(ctx, conn)
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}
