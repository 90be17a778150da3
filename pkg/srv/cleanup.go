package srv

import "context"

// cleanupService runs a function on shutdown and does nothing on start.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}

// NewCleanupFunc adapts an error-less cleanup, such as the one returned by
// telemetry initialisation.
func NewCleanupFunc(fn func()) Service {
	return NewCleanup(func() error {
		fn()
		return nil
	})
}
