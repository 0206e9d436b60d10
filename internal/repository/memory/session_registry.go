// Package memory holds the process-local SessionRegistry used for
// single-process deployments and tests. State does not survive restarts; the
// postgres registry is the durable variant.
package memory

import (
	"context"
	"sync"
	"time"
)

type SessionRegistry struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{active: make(map[string]struct{})}
}

func (r *SessionRegistry) Activate(ctx context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[token] = struct{}{}
	return nil
}

func (r *SessionRegistry) IsActive(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[token]
	return ok, nil
}

func (r *SessionRegistry) Deactivate(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, token)
	return nil
}
