// Package store persists the contract workflow in Postgres, with a Redis
// cache in front of the contract read model.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
)

// RedisClient is the subset of redis.Client the repository uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// WorkflowRepository handles database operations for the contract aggregate
// and its side processes.
type WorkflowRepository struct {
	db    *sql.DB
	redis RedisClient
}

// NewWorkflowRepository connects to Postgres and wires the cache client.
func NewWorkflowRepository(dsn string, rdb RedisClient) (*WorkflowRepository, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*config)
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &WorkflowRepository{db: db, redis: rdb}, nil
}

// Close closes the database and cache connections.
func (r *WorkflowRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return err
	}
	if r.redis != nil {
		return r.redis.Close()
	}
	return nil
}
