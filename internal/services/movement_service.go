package services

import (
	"context"
	"errors"
	"time"

	"estoque/internal/models"
	"estoque/internal/repositories"
	"estoque/pkg/logger"
)

// MovementService records stock entries and exits.
type MovementService struct {
	repo      repositories.MovementRepository
	publisher EventPublisher
	log       *logger.Logger
}

// NewMovementService creates a new MovementService. publisher may be nil.
func NewMovementService(repo repositories.MovementRepository, publisher EventPublisher, log *logger.Logger) *MovementService {
	return &MovementService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// RecordMovement stores the movement and applies it to the product stock, then announces
// it. A stock.low event follows when the product ends below its minimum.
func (s *MovementService) RecordMovement(ctx context.Context, movement *models.Movement) (*models.Movement, error) {
	product, err := s.repo.Record(ctx, movement)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, repositories.ErrInsufficientStock):
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	qty := movement.Quantity
	event := InventoryEvent{
		ProductID:    product.ID,
		ProductName:  product.Name,
		MovementID:   movement.ID,
		MovementType: movement.Type,
		Quantity:     &qty,
		CurrentStock: product.CurrentStock,
		MinStock:     product.MinStock,
		OccurredAt:   time.Now(),
	}
	publish(s.publisher, s.log, EventMovementRecorded, event)
	if product.IsLowStock() {
		publish(s.publisher, s.log, EventStockLow, event)
	}
	return movement, nil
}
