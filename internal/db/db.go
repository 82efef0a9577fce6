package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and applies the relay schema.
func Connect(dsn string) (*sqlx.DB, error) {
	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	database.SetMaxOpenConns(10)

	if err := runMigrations(database); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return database, nil
}

func runMigrations(database *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS broadcasts (
            id SERIAL PRIMARY KEY,
            stream_id TEXT NOT NULL,
            started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            ended_at TIMESTAMPTZ
        );`,
		`CREATE INDEX IF NOT EXISTS idx_broadcasts_stream_started
            ON broadcasts (stream_id, started_at DESC);`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
            id SERIAL PRIMARY KEY,
            broadcast_id INT NOT NULL REFERENCES broadcasts(id) ON DELETE CASCADE,
            stream_id TEXT NOT NULL,
            user_sub TEXT,
            user_name TEXT NOT NULL,
            text TEXT NOT NULL,
            sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_broadcast
            ON chat_messages (broadcast_id, id DESC);`,
		`CREATE TABLE IF NOT EXISTS reactions (
            id SERIAL PRIMARY KEY,
            broadcast_id INT NOT NULL REFERENCES broadcasts(id) ON DELETE CASCADE,
            stream_id TEXT NOT NULL,
            user_sub TEXT,
            kind TEXT NOT NULL CHECK (kind IN ('like', 'heart', 'dislike')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_broadcast
            ON reactions (broadcast_id, kind);`,
	}

	for _, m := range migrations {
		if _, err := database.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
