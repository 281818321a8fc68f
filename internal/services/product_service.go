package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estoque/internal/models"
	"estoque/internal/repositories"
	"estoque/pkg/logger"
)

// FilterVariant names the four mutually exclusive product listings.
type FilterVariant int

const (
	FilterAll FilterVariant = iota
	FilterByType
	FilterLowStock
	FilterByTypeLowStock
)

func (v FilterVariant) String() string {
	switch v {
	case FilterAll:
		return "all"
	case FilterByType:
		return "by_type"
	case FilterLowStock:
		return "low_stock"
	case FilterByTypeLowStock:
		return "by_type_low_stock"
	}
	return fmt.Sprintf("FilterVariant(%d)", int(v))
}

// ListFilter holds the two independent listing inputs.
type ListFilter struct {
	Type         string
	LowStockOnly bool
}

// ParseListFilter builds a filter from the raw query values. Only the exact string "true"
// requests the low stock view.
func ParseListFilter(productType, lowStock string) ListFilter {
	return ListFilter{Type: productType, LowStockOnly: lowStock == "true"}
}

// Variant maps the filter to its listing.
func (f ListFilter) Variant() FilterVariant {
	switch {
	case f.Type != "" && f.LowStockOnly:
		return FilterByTypeLowStock
	case f.Type != "":
		return FilterByType
	case f.LowStockOnly:
		return FilterLowStock
	default:
		return FilterAll
	}
}

// Applied returns the filters echoed back to the client.
func (f ListFilter) Applied() map[string]interface{} {
	applied := map[string]interface{}{}
	if f.Type != "" {
		applied["tipo"] = f.Type
	}
	if f.LowStockOnly {
		applied["estoque_baixo"] = true
	}
	return applied
}

// ProductList is the result of a listing. Data holds []models.Product,
// []models.LowStockProduct or []models.LowStockProductWithMovements depending on Variant.
type ProductList struct {
	Variant FilterVariant
	Filters map[string]interface{}
	Total   int
	Data    interface{}
}

// ProductHistory is a product summary with its movements, newest first.
type ProductHistory struct {
	Product   models.ProductSummary
	Movements []models.MovementWithProduct
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	movements repositories.MovementRepository
	publisher EventPublisher
	log       *logger.Logger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, movements repositories.MovementRepository, publisher EventPublisher, log *logger.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		movements: movements,
		publisher: publisher,
		log:       log,
	}
}

// ListProducts runs the listing selected by the filter.
func (s *ProductService) ListProducts(ctx context.Context, filter ListFilter) (*ProductList, error) {
	result := &ProductList{Variant: filter.Variant(), Filters: filter.Applied()}

	switch result.Variant {
	case FilterByTypeLowStock:
		rows, err := s.repo.ListByTypeLowStockWithMovementCounts(ctx, filter.Type)
		if err != nil {
			return nil, err
		}
		result.Total, result.Data = len(rows), nonNil(rows)
	case FilterByType:
		rows, err := s.repo.ListByType(ctx, filter.Type)
		if err != nil {
			return nil, err
		}
		result.Total, result.Data = len(rows), nonNil(rows)
	case FilterLowStock:
		rows, err := s.repo.ListLowStock(ctx)
		if err != nil {
			return nil, err
		}
		result.Total, result.Data = len(rows), nonNil(rows)
	case FilterAll:
		rows, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		result.Total, result.Data = len(rows), nonNil(rows)
	default:
		return nil, fmt.Errorf("unknown product filter %s", result.Variant)
	}
	return result, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// CreateProduct stores the product and returns it as read back from the database.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	created, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back product %d: %w", product.ID, err)
	}

	publish(s.publisher, s.log, EventProductCreated, InventoryEvent{
		ProductID:    created.ID,
		ProductName:  created.Name,
		CurrentStock: created.CurrentStock,
		MinStock:     created.MinStock,
		OccurredAt:   time.Now(),
	})
	return created, nil
}

// GetProduct retrieves a product by id.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ProductHistory retrieves the product summary and its movements.
func (s *ProductService) ProductHistory(ctx context.Context, id uint) (*ProductHistory, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	movements, err := s.movements.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductHistory{
		Product: models.ProductSummary{
			ID:           product.ID,
			Name:         product.Name,
			CurrentStock: product.CurrentStock,
		},
		Movements: nonNil(movements),
	}, nil
}
