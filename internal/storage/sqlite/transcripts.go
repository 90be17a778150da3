package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/loopbot/internal/core"
)

// TranscriptRepo is an append-only audit log of answered turns. It is never
// read back into live sessions.
type TranscriptRepo struct {
	db *sql.DB
}

func NewTranscriptRepo(db *sql.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

func (r *TranscriptRepo) AddTurn(ctx context.Context, sessionID string, turn core.Turn) error {
	at := turn.At
	if at.IsZero() {
		at = time.Now()
	}
	query := `INSERT INTO turns (session_id, user_text, bot_speech, intent, out_of_scope, needs_clarification, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		sessionID, turn.User, turn.Bot, string(turn.Intent),
		turn.OutOfScope, turn.NeedsClarification, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// GetTurns returns the last limit turns of a session, oldest first.
func (r *TranscriptRepo) GetTurns(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	query := `SELECT user_text, bot_speech, intent, out_of_scope, needs_clarification, created_at
		FROM turns WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		var intent string
		if err := rows.Scan(&t.User, &t.Bot, &intent, &t.OutOfScope, &t.NeedsClarification, &t.At); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.Intent = core.Intent(intent)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest first from the query, flip to chronological.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// IntentCounts aggregates archived turns per intent.
func (r *TranscriptRepo) IntentCounts(ctx context.Context) (map[core.Intent]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT intent, COUNT(*) FROM turns GROUP BY intent`)
	if err != nil {
		return nil, fmt.Errorf("failed to count intents: %w", err)
	}
	defer rows.Close()

	counts := make(map[core.Intent]int)
	for rows.Next() {
		var intent string
		var n int
		if err := rows.Scan(&intent, &n); err != nil {
			return nil, fmt.Errorf("failed to scan intent count: %w", err)
		}
		counts[core.Intent(intent)] = n
	}
	return counts, rows.Err()
}

// Prune deletes turns older than cutoff and returns how many were removed.
func (r *TranscriptRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM turns WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune turns: %w", err)
	}
	return res.RowsAffected()
}
