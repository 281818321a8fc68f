package repositories

import (
	"context"
	"errors"
	"fmt"

	"estoque/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// ListAll retrieves every product.
func (r *GORMProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("name asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListByType retrieves the products of one type.
func (r *GORMProductRepository) ListByType(ctx context.Context, productType string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("type = ?", productType).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products of type %s: %w", productType, err)
	}
	return products, nil
}

// ListLowStock retrieves the products below their minimum stock.
func (r *GORMProductRepository) ListLowStock(ctx context.Context) ([]models.LowStockProduct, error) {
	products := []models.LowStockProduct{}
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id, name, current_stock, min_stock").
		Where("current_stock < min_stock").
		Order("name asc").
		Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}

// ListByTypeLowStockWithMovementCounts retrieves the low stock products of one type with
// the number of movements recorded for each. The left join keeps products with none, and
// the group by lists every selected product column so the count stays per product.
func (r *GORMProductRepository) ListByTypeLowStockWithMovementCounts(ctx context.Context, productType string) ([]models.LowStockProductWithMovements, error) {
	products := []models.LowStockProductWithMovements{}
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.id, products.name, products.current_stock, products.min_stock, COUNT(movements.id) AS total_movements").
		Joins("LEFT JOIN movements ON movements.product_id = products.id").
		Where("products.type = ?", productType).
		Where("products.current_stock < products.min_stock").
		Group("products.id, products.name, products.current_stock, products.min_stock").
		Order("products.name asc").
		Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products of type %s: %w", productType, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a product. The generated ID and timestamps are set on product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Count returns the number of products stored.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
