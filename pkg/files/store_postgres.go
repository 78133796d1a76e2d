package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on top of a Postgres files table.
type PostgresStore struct {
	DB *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and returns a Postgres-backed Store.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

// CreateSchema ensures the files table exists.
func (ps *PostgresStore) CreateSchema(ctx context.Context) error {
	if ps == nil || ps.DB == nil {
		return nil
	}
	_, err := ps.DB.Exec(ctx, `
                CREATE TABLE IF NOT EXISTS files (
                        id         TEXT PRIMARY KEY,
                        name       TEXT NOT NULL,
                        mime_type  TEXT NOT NULL DEFAULT '',
                        data       BYTEA NOT NULL,
                        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
                );
        `)
	return err
}

func (ps *PostgresStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := ps.DB.QueryRow(ctx,
		`SELECT data, mime_type FROM files WHERE id = $1;`, id,
	).Scan(&data, &mime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("%q: %w", id, ErrNotFound)
		}
		return nil, "", fmt.Errorf("query file %q: %w", id, err)
	}
	return data, mime, nil
}

// Put inserts or replaces a file record.
func (ps *PostgresStore) Put(ctx context.Context, id, name, mime string, data []byte) error {
	_, err := ps.DB.Exec(ctx, `
                INSERT INTO files (id, name, mime_type, data)
                VALUES ($1, $2, $3, $4)
                ON CONFLICT (id) DO UPDATE SET name = $2, mime_type = $3, data = $4;
        `, id, name, mime, data)
	return err
}

// Close releases the connection pool.
func (ps *PostgresStore) Close() {
	if ps != nil && ps.DB != nil {
		ps.DB.Close()
	}
}
