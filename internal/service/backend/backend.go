// Package backend turns a BackendConfig into a completion capability. The
// adapter is constructed fresh per call site from the immutable config rather
// than cached alongside UI state.
package backend

import (
	"context"
	"errors"
	"time"

	"induchat/internal/models"
)

// CallTimeout bounds every completion call regardless of call site; expiry
// counts as a backend failure.
const CallTimeout = 30 * time.Second

// Completer is the single capability the dispatcher depends on: given an
// ordered history it returns the next reply text or an error. Implementations
// honor the context deadline and never retry.
type Completer interface {
	Complete(ctx context.Context, turns []models.Turn) (string, error)
}

var (
	// ErrNoBackend means the configuration selects no completion capability.
	ErrNoBackend = errors.New("no backend configured")
	// ErrDependencyMissing means the local generation runtime is unavailable.
	ErrDependencyMissing = errors.New("local generation runtime unavailable")
	// ErrResource means the local runtime failed on memory or device limits.
	ErrResource = errors.New("local generation runtime resource failure")
)

// New builds the adapter for the given configuration.
func New(cfg models.BackendConfig) (Completer, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case models.BackendHosted:
		return &hostedCompleter{cfg: cfg}, nil
	case models.BackendLocal:
		return newLocalCompleter(cfg), nil
	default:
		return nil, ErrNoBackend
	}
}
