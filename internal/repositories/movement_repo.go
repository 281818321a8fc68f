package repositories

import (
	"context"

	"estoque/internal/models"
)

// MovementRepository defines the interface for movement data access.
type MovementRepository interface {
	// ListByProduct returns the movements of a product, newest movement date first and, within
	// the same date, the most recently recorded first.
	ListByProduct(ctx context.Context, productID uint) ([]models.MovementWithProduct, error)
	// Record inserts the movement and applies it to the product stock atomically.
	// It returns the product as it is after the change.
	Record(ctx context.Context, movement *models.Movement) (*models.Product, error)
}
