package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists sessions in a single key/value table so sessions
// survive portal restarts. The sweeper removes rows idle longer than
// the TTL.
type Postgres struct {
	db  *pgxpool.Pool
	ttl time.Duration
}

func NewPostgres(ctx context.Context, databaseURL string, ttl time.Duration) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: connect: %w", err)
	}
	store := &Postgres{db: pool, ttl: ttl}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `
    CREATE TABLE IF NOT EXISTS portal_sessions (
      sid        TEXT NOT NULL,
      key        TEXT NOT NULL,
      value      TEXT NOT NULL,
      updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
      PRIMARY KEY (sid, key)
    )
  `)
	if err != nil {
		return fmt.Errorf("sessionstore: migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, sid, key string) (string, error) {
	var value string
	err := p.db.QueryRow(ctx, `
    SELECT value FROM portal_sessions
    WHERE sid = $1 AND key = $2 AND updated_at > now() - $3::interval
  `, sid, key, p.intervalArg()).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("sessionstore: get: %w", err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, sid, key, value string) error {
	_, err := p.db.Exec(ctx, `
    INSERT INTO portal_sessions (sid, key, value, updated_at)
    VALUES ($1, $2, $3, now())
    ON CONFLICT (sid, key) DO UPDATE SET value = $3, updated_at = now()
  `, sid, key, value)
	if err != nil {
		return fmt.Errorf("sessionstore: set: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := p.db.Exec(ctx, `
    DELETE FROM portal_sessions WHERE sid = $1 AND key = ANY($2)
  `, sid, keys)
	if err != nil {
		return fmt.Errorf("sessionstore: delete: %w", err)
	}
	return nil
}

func (p *Postgres) Clear(ctx context.Context, sid string) error {
	_, err := p.db.Exec(ctx, "DELETE FROM portal_sessions WHERE sid = $1", sid)
	if err != nil {
		return fmt.Errorf("sessionstore: clear: %w", err)
	}
	return nil
}

func (p *Postgres) Sweep(ctx context.Context) (int, error) {
	tag, err := p.db.Exec(ctx, `
    DELETE FROM portal_sessions WHERE updated_at <= now() - $1::interval
  `, p.intervalArg())
	if err != nil {
		return 0, fmt.Errorf("sessionstore: sweep: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *Postgres) Close() {
	p.db.Close()
}

func (p *Postgres) intervalArg() string {
	ttl := p.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return fmt.Sprintf("%d seconds", int(ttl.Seconds()))
}
