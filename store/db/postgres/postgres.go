// Package postgres implements the store driver on lib/pq.
package postgres

import (
	"context"
	"database/sql"

	// Import the postgres driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Mishleyn/T-Prep/internal/profile"
	"github.com/Mishleyn/T-Prep/store"
)

// DB is the postgres implementation of store.Driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a postgres database using the DSN from the profile.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}
	if err := pgDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping db")
	}

	return &DB{db: pgDB, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS system_setting (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS "user" (
	id SERIAL PRIMARY KEY,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS question (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	creator_id INTEGER NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	question_text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_creator_id ON question (creator_id);

CREATE TABLE IF NOT EXISTS answer (
	id SERIAL PRIMARY KEY,
	question_id INTEGER NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	answer_text TEXT NOT NULL,
	model TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_answer_question_id ON answer (question_id);

CREATE TABLE IF NOT EXISTS review_reminder (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	question_id INTEGER NOT NULL,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	stage INTEGER NOT NULL,
	fire_at BIGINT NOT NULL,
	status TEXT NOT NULL DEFAULT 'PENDING',
	message TEXT NOT NULL DEFAULT '',
	sent_ts BIGINT
);

CREATE INDEX IF NOT EXISTS idx_review_reminder_question_id ON review_reminder (question_id);
CREATE INDEX IF NOT EXISTS idx_review_reminder_status_fire_at ON review_reminder (status, fire_at);
`

// Migrate applies the latest schema. Statements are idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
