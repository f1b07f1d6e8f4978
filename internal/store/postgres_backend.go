package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

const documentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		key        TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresBackend keeps the document as one JSONB row keyed by the storage key
type PostgresBackend struct {
	db  *sqlx.DB
	key string
}

// NewPostgresBackend connects to the database and ensures the documents table exists
func NewPostgresBackend(databaseURL, key string) (*PostgresBackend, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if _, err := db.Exec(documentsSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create documents table")
	}

	return &PostgresBackend{db: db, key: key}, nil
}

func (p *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	var body string
	err := p.db.GetContext(ctx, &body, "SELECT body::text FROM documents WHERE key = $1", p.key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load document %s", p.key)
	}
	return []byte(body), nil
}

func (p *PostgresBackend) Save(ctx context.Context, data []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO documents (key, body, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		p.key, string(data))
	if err != nil {
		return errors.Wrapf(err, "save document %s", p.key)
	}
	return nil
}

func (p *PostgresBackend) Close() error {
	return p.db.Close()
}
