package shipping

import (
	"context"
	"time"
)

// AttemptGuard serializes fulfillment attempts per order. The order number is
// the carrier-visible correlation key and the closest available idempotency
// signal, since the carriers' APIs accept no client-supplied idempotency
// token. The guard protects against concurrent duplicate submissions only; a
// failed attempt releases its claim so the caller may deliberately retry.
type AttemptGuard interface {
	// Begin claims the order number for one in-flight attempt. It returns
	// false when another attempt already holds the claim.
	Begin(ctx context.Context, orderNumber string, ttl time.Duration) (bool, error)

	// Release drops the claim, making the order number available again.
	Release(ctx context.Context, orderNumber string) error

	// Close releases guard resources
	Close() error
}

// DefaultAttemptTTL bounds how long a crashed attempt can hold its claim.
const DefaultAttemptTTL = 10 * time.Minute
