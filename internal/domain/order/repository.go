package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-facing order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByStatus finds orders in a given status, newest first
	FindByStatus(ctx context.Context, status Status, limit, offset int) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, o *Order) error

	// Delete soft-deletes an order
	Delete(ctx context.Context, id uuid.UUID) error
}
