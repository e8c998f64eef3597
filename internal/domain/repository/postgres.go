package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const classificationsSchema = `
	CREATE TABLE IF NOT EXISTS classifications (
		id          UUID PRIMARY KEY,
		imc         DOUBLE PRECISION NOT NULL,
		pasos       DOUBLE PRECISION NOT NULL,
		cluster_id  INTEGER NOT NULL,
		label       TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type PostgresRepository struct {
	DB *sqlx.DB
}

func NewPostgresRepository(ctx context.Context, connStr string) (*PostgresRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostgresRepository{DB: db}, nil
}

// EnsureSchema creates the tables the recorder writes to.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, classificationsSchema); err != nil {
		return fmt.Errorf("failed to create classifications table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	return r.DB.Close()
}
