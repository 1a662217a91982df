package state

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresGateway struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Gateway over the session_state table.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Gateway {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresGateway{pool: pool, logger: logger}
}

func (g *postgresGateway) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value FROM session_state WHERE key = $1`
	var value []byte
	if err := g.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		g.logger.Printf("state gateway: get key=%s error=%v", key, err)
		return nil, false, err
	}
	return value, true, nil
}

func (g *postgresGateway) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO session_state (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`
	if _, err := g.pool.Exec(ctx, q, key, value); err != nil {
		g.logger.Printf("state gateway: set key=%s error=%v", key, err)
		return err
	}
	return nil
}

func (g *postgresGateway) Remove(ctx context.Context, key string) error {
	if _, err := g.pool.Exec(ctx, `DELETE FROM session_state WHERE key = $1`, key); err != nil {
		g.logger.Printf("state gateway: remove key=%s error=%v", key, err)
		return err
	}
	return nil
}
