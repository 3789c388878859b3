package watermark

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"twir-bot/internal/domain/ports"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS watermarks (
	name    TEXT PRIMARY KEY,
	last_id BIGINT NOT NULL
);`

// PostgresStore keeps the watermark as one row of the watermarks table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	name   string
	logger ports.Logger
}

var _ ports.WatermarkStore = (*PostgresStore)(nil)

// NewPostgresPool opens a pool for databaseURL and verifies the connection.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresStore creates the table if needed and returns a store for name.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, name string, logger ports.Logger) (*PostgresStore, error) {
	if name == "" {
		name = DefaultName
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("create watermarks table: %w", err)
	}
	return &PostgresStore{pool: pool, name: name, logger: logger}, nil
}

// Load reads the watermark. A missing row reads as 0.
func (s *PostgresStore) Load(ctx context.Context) (int, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT last_id FROM watermarks WHERE name = $1`, s.name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select watermark: %w", err)
	}
	if id < 0 {
		if s.logger != nil {
			s.logger.Error(ctx, "ignoring negative watermark", "value", id)
		}
		return 0, nil
	}
	return int(id), nil
}

// Save upserts the watermark row.
func (s *PostgresStore) Save(ctx context.Context, id int) error {
	_, err := s.pool.Exec(ctx, `
	INSERT INTO watermarks (name, last_id)
	VALUES ($1, $2)
	ON CONFLICT (name) DO UPDATE SET last_id = EXCLUDED.last_id;
	`, s.name, int64(id))
	if err != nil {
		return fmt.Errorf("upsert watermark: %w", err)
	}
	return nil
}
