package srv

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	mu    *sync.Mutex
	order *[]string
	ctxOK bool
}

func (r *recorder) Start(ctx context.Context) error { return nil }

func (r *recorder) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.order = append(*r.order, r.name)
	r.ctxOK = ctx.Err() == nil
	return nil
}

func TestShutdownServices_ReverseOrderWithLiveContext(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	a := &recorder{name: "a", mu: &mu, order: &order}
	b := &recorder{name: "b", mu: &mu, order: &order}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ShutdownServices(ctx, []Service{a, b})

	assert.Equal(t, []string{"b", "a"}, order)
	assert.True(t, a.ctxOK)
	assert.True(t, b.ctxOK)
}

func TestNewCleanupFunc(t *testing.T) {
	called := false
	svc := NewCleanupFunc(func() { called = true })
	assert.NoError(t, svc.Start(context.Background()))
	assert.NoError(t, svc.Shutdown(context.Background()))
	assert.True(t, called)
}
