package session

import (
	"context"
	"time"

	"github.com/sandevgo/loopbot/pkg/log"
)

const DefaultSweepInterval = time.Minute

// Sweeper evicts idle sessions on a ticker. It implements srv.Service.
type Sweeper struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	onEvict  func(n int)
}

func NewSweeper(store *Store, ttl, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
	}
}

// OnEvict registers a hook called after every sweep that removed sessions.
func (w *Sweeper) OnEvict(fn func(n int)) {
	w.onEvict = fn
}

func (w *Sweeper) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx).With().Str("component", "session_sweeper").Logger()
	if w.ttl <= 0 {
		logger.Info().Msg("session eviction disabled")
		return nil
	}
	logger.Info().Dur("ttl", w.ttl).Dur("interval", w.interval).Msg("starting session sweeper")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down session sweeper")
			return nil
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one eviction pass.
func (w *Sweeper) Sweep(ctx context.Context) int {
	n := w.store.Evict(w.ttl)
	if n == 0 {
		return 0
	}
	log.FromCtx(ctx).Debug().Int("evicted", n).Int("live", w.store.Len()).Msg("evicted idle sessions")
	if w.onEvict != nil {
		w.onEvict(n)
	}
	return n
}

func (w *Sweeper) Shutdown(ctx context.Context) error {
	return nil
}
