package cache

import (
	"context"
	"sync"
	"time"

	"github.com/linenloft/backend/internal/domain/shipping"
)

// claim represents one in-flight attempt with its expiry
type claim struct {
	expiresAt time.Time
}

// InMemoryAttemptGuard implements shipping.AttemptGuard with a mutex-guarded
// map, suitable for single-instance deployments and tests. A background
// goroutine sweeps expired claims.
type InMemoryAttemptGuard struct {
	mu        sync.Mutex
	claims    map[string]claim
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryAttemptGuard creates an in-memory attempt guard and starts its
// cleanup goroutine.
func NewInMemoryAttemptGuard() *InMemoryAttemptGuard {
	g := &InMemoryAttemptGuard{
		claims:   make(map[string]claim),
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupLoop()

	return g
}

// Begin claims the order number for one in-flight attempt
func (g *InMemoryAttemptGuard) Begin(ctx context.Context, orderNumber string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, exists := g.claims[orderNumber]; exists && time.Now().Before(c.expiresAt) {
		return false, nil
	}

	g.claims[orderNumber] = claim{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Release drops the claim for the order number
func (g *InMemoryAttemptGuard) Release(ctx context.Context, orderNumber string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claims, orderNumber)
	return nil
}

// Close stops the cleanup goroutine
func (g *InMemoryAttemptGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
	})
	g.wg.Wait()
	return nil
}

// cleanupLoop periodically removes expired claims
func (g *InMemoryAttemptGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.removeExpired()
		}
	}
}

// removeExpired deletes claims whose expiry has passed
func (g *InMemoryAttemptGuard) removeExpired() {
	now := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, c := range g.claims {
		if now.After(c.expiresAt) {
			delete(g.claims, key)
		}
	}
}

// Ensure InMemoryAttemptGuard implements AttemptGuard
var _ shipping.AttemptGuard = (*InMemoryAttemptGuard)(nil)
