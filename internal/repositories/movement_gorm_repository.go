package repositories

import (
	"context"
	"errors"
	"fmt"

	"estoque/internal/models"

	"gorm.io/gorm"
)

// GORMMovementRepository is a GORM implementation of MovementRepository.
type GORMMovementRepository struct {
	db *gorm.DB
}

// NewGORMMovementRepository creates a new instance of GORMMovementRepository.
func NewGORMMovementRepository(db *gorm.DB) *GORMMovementRepository {
	return &GORMMovementRepository{db: db}
}

// ListByProduct retrieves the movement history of a product joined with the product name.
func (r *GORMMovementRepository) ListByProduct(ctx context.Context, productID uint) ([]models.MovementWithProduct, error) {
	movements := []models.MovementWithProduct{}
	err := r.db.WithContext(ctx).
		Table("movements").
		Select("movements.*, products.name AS product_name").
		Joins("JOIN products ON products.id = movements.product_id").
		Where("movements.product_id = ?", productID).
		Order("movements.movement_date desc").
		Order("movements.created_at desc").
		Scan(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movements of product %d: %w", productID, err)
	}
	return movements, nil
}

// Record stores the movement and adjusts the product stock in one transaction.
// Exits are applied with a conditional update so the stock never goes negative.
func (r *GORMMovementRepository) Record(ctx context.Context, movement *models.Movement) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, movement.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product with ID %d: %w", movement.ProductID, ErrNotFound)
			}
			return fmt.Errorf("failed to load product %d: %w", movement.ProductID, err)
		}

		update := tx.Model(&models.Product{}).Where("id = ?", movement.ProductID)
		if movement.Type == models.MovementExit {
			update = update.Where("current_stock >= ?", movement.Quantity)
		}
		res := update.Update("current_stock", gorm.Expr("current_stock + ?", movement.Delta()))
		if res.Error != nil {
			return fmt.Errorf("failed to adjust stock of product %d: %w", movement.ProductID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		if err := tx.Create(movement).Error; err != nil {
			return fmt.Errorf("failed to create movement: %w", err)
		}
		if err := tx.First(&product, movement.ProductID).Error; err != nil {
			return fmt.Errorf("failed to reload product %d: %w", movement.ProductID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
