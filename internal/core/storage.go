package core

import (
	"context"
	"time"
)

// Query filters hospital records. Empty fields do not constrain.
// Matching is case-insensitive substring containment.
type Query struct {
	City   string
	Name   string
	Text   string // matches name, address or city
	Offset int
	Limit  int // 0 means no limit
}

type HospitalStore interface {
	Filter(ctx context.Context, q Query) ([]HospitalRecord, error)
	Count(ctx context.Context, q Query) (int, error)
}

type TranscriptRepository interface {
	AddTurn(ctx context.Context, sessionID string, turn Turn) error
	GetTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
