package repositories

import (
	"context"

	"estoque/internal/models"
)

// ProductRepository defines the product queries. Every listing is ordered by name ascending.
type ProductRepository interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	ListByType(ctx context.Context, productType string) ([]models.Product, error)
	// ListLowStock returns products whose current stock is strictly below the minimum.
	ListLowStock(ctx context.Context) ([]models.LowStockProduct, error)
	// ListByTypeLowStockWithMovementCounts keeps products without movements (count 0).
	ListByTypeLowStockWithMovementCounts(ctx context.Context, productType string) ([]models.LowStockProductWithMovements, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Count(ctx context.Context) (int64, error)
}
