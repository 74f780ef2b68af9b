// internal/progress/store.go
//
// Persistence collaborator for player progress.
// Responsibilities:
//   - Store interface: load / create / update a player's {score, move, level}.
//   - Decode raw stored documents field by field, substituting defaults for
//     anything missing or garbled.
//   - Resume: the one load performed when a player comes back.
//
// Documents are kept raw (map[string]any) on the read side so a bad field
// never poisons the good ones.

package progress

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned by Update for players without a stored document.
var ErrNotFound = errors.New("progress: player not found")

// Record is the persisted progress of a player.
type Record struct {
	Score int `json:"score"`
	Move  int `json:"move"`
	Level int `json:"level"`
}

// Defaults is the progress of a brand-new player.
func Defaults() Record { return Record{Score: 0, Move: 0, Level: 1} }

// Doc is a stored document as read back, before validation.
type Doc map[string]any

// Store persists progress keyed by player id.
type Store interface {
	// Load returns the stored document; found is false for unknown players.
	Load(ctx context.Context, playerID string) (doc Doc, found bool, err error)

	// Create stores r for a player, merging over any existing document.
	Create(ctx context.Context, playerID string, r Record) error

	// Update overwrites an existing player's progress; ErrNotFound otherwise.
	Update(ctx context.Context, playerID string, r Record) error
}

// Decode converts doc to a Record. Each field falls back to its default on
// its own when missing, non-numeric, fractional or out of range.
func Decode(doc Doc) Record {
	r := Defaults()
	if v, ok := intField(doc, "score"); ok && v >= 0 {
		r.Score = v
	}
	if v, ok := intField(doc, "move"); ok && v >= 0 {
		r.Move = v
	}
	if v, ok := intField(doc, "level"); ok && v >= 1 {
		r.Level = v
	}
	return r
}

func intField(doc Doc, key string) (int, bool) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return clampInt(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return clampInt(n)
	}
	return 0, false
}

func clampInt(v int64) (int, bool) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(v), true
}

// Resume loads a returning player's progress. Unknown players get a default
// document created for them. Store failures are logged and yield defaults;
// resuming never fails.
func Resume(ctx context.Context, st Store, playerID string) (r Record, existing bool) {
	doc, found, err := st.Load(ctx, playerID)
	if err != nil {
		log.Warn().Err(err).Str("player", playerID).Msg("load progress")
		return Defaults(), false
	}
	if !found {
		if err := st.Create(ctx, playerID, Defaults()); err != nil {
			log.Warn().Err(err).Str("player", playerID).Msg("create progress")
		}
		return Defaults(), false
	}
	return Decode(doc), true
}
