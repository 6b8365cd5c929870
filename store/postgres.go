package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"cricketflow/logger"
	"cricketflow/models"
)

// PostgresStore persists followed matches and snapshots in Postgres so they
// survive process restarts. Snapshots are stored as JSON documents; the delta
// engine only ever needs whole-snapshot reads and writes.
type PostgresStore struct {
	db  *sql.DB
	log *logger.Log
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStore{db: db, log: logger.GetLogger()}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	s.log.WithComponent("postgres_store").Info("postgres snapshot store initialized")
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS followed_matches (
			match_id   TEXT PRIMARY KEY,
			snapshot   JSONB,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create followed_matches table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Follow(ctx context.Context, matchID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO followed_matches (match_id) VALUES ($1) ON CONFLICT (match_id) DO NOTHING`,
		matchID)
	if err != nil {
		return fmt.Errorf("failed to follow match %s: %w", matchID, err)
	}
	return nil
}

func (s *PostgresStore) Unfollow(ctx context.Context, matchID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM followed_matches WHERE match_id = $1`, matchID)
	if err != nil {
		return fmt.Errorf("failed to unfollow match %s: %w", matchID, err)
	}
	return nil
}

func (s *PostgresStore) Followed(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id FROM followed_matches ORDER BY match_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed matches: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan match id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, matchID string) (*models.Match, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM followed_matches WHERE match_id = $1`, matchID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for match %s: %w", matchID, err)
	}
	if len(payload) == 0 {
		return nil, nil
	}

	var m models.Match
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for match %s: %w", matchID, err)
	}
	return &m, nil
}

// Put updates the stored snapshot. The row-scoped UPDATE makes a write after
// Unfollow a no-op rather than a resurrection of the entry.
func (s *PostgresStore) Put(ctx context.Context, matchID string, m models.Match) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for match %s: %w", matchID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE followed_matches SET snapshot = $2, updated_at = now() WHERE match_id = $1`,
		matchID, payload)
	if err != nil {
		return fmt.Errorf("failed to store snapshot for match %s: %w", matchID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
