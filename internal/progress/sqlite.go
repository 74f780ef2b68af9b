// internal/progress/sqlite.go
//
// SQLite-backed progress Store (mattn/go-sqlite3 via database/sql).
// Responsibilities:
//   - One JSON document per player in the players table.
//   - Load decodes the document; a garbled one loads as empty (defaults).
//   - Create inserts a new row; Update overwrites doc and updated_at.

package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// SQLStore keeps one JSON document per player in the players table.
type SQLStore struct{ db *sql.DB }

// NewSQLStore wraps an open database that has the players table migrated.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Load(ctx context.Context, playerID string) (Doc, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM players WHERE id=?`, playerID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", playerID, err)
	}

	doc := Doc{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		// garbled document: every field falls back to its default
		log.Warn().Err(err).Str("player", playerID).Msg("unreadable progress document")
		return Doc{}, true, nil
	}
	return doc, true, nil
}

func (s *SQLStore) Create(ctx context.Context, playerID string, r Record) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO players (id, doc, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET doc=excluded.doc, updated_at=excluded.updated_at`,
		playerID, string(doc), now, now,
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", playerID, err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, playerID string, r Record) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET doc=?, updated_at=? WHERE id=?`,
		string(doc), time.Now().UTC().Format(time.RFC3339), playerID,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", playerID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
