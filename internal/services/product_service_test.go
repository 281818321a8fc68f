package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"estoque/internal/models"
	"estoque/internal/repositories"
	"estoque/internal/services"
	"estoque/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListFilter_Variant(t *testing.T) {
	tests := []struct {
		tipo, lowStock string
		want           services.FilterVariant
		applied        map[string]interface{}
	}{
		{"", "", services.FilterAll, map[string]interface{}{}},
		{"bebida", "", services.FilterByType, map[string]interface{}{"tipo": "bebida"}},
		{"", "true", services.FilterLowStock, map[string]interface{}{"estoque_baixo": true}},
		{"bebida", "true", services.FilterByTypeLowStock, map[string]interface{}{"tipo": "bebida", "estoque_baixo": true}},
		{"", "1", services.FilterAll, map[string]interface{}{}},
		{"limpeza", "TRUE", services.FilterByType, map[string]interface{}{"tipo": "limpeza"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("tipo=%q estoque_baixo=%q", tt.tipo, tt.lowStock), func(t *testing.T) {
			f := services.ParseListFilter(tt.tipo, tt.lowStock)
			assert.Equal(t, tt.want, f.Variant())
			assert.Equal(t, tt.applied, f.Applied())
		})
	}
}

func TestProductService_ListProducts_Dispatch(t *testing.T) {
	ctx := context.Background()
	all := []models.Product{{ID: 1, Name: "Agua"}, {ID: 2, Name: "Sabao"}}
	byType := []models.Product{{ID: 1, Name: "Agua"}}
	low := []models.LowStockProduct{{ID: 2, Name: "Sabao"}}
	lowByType := []models.LowStockProductWithMovements{{ID: 1, Name: "Agua", TotalMovements: 0}}

	t.Run("no filters", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ListAll", ctx).Return(all, nil).Once()
		svc := services.NewProductService(repo, nil, nil, logger.Nop())

		res, err := svc.ListProducts(ctx, services.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, services.FilterAll, res.Variant)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, all, res.Data)
		repo.AssertExpectations(t)
	})

	t.Run("type only", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ListByType", ctx, "bebida").Return(byType, nil).Once()
		svc := services.NewProductService(repo, nil, nil, logger.Nop())

		res, err := svc.ListProducts(ctx, services.ListFilter{Type: "bebida"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, byType, res.Data)
		repo.AssertExpectations(t)
	})

	t.Run("low stock only", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ListLowStock", ctx).Return(low, nil).Once()
		svc := services.NewProductService(repo, nil, nil, logger.Nop())

		res, err := svc.ListProducts(ctx, services.ListFilter{LowStockOnly: true})
		require.NoError(t, err)
		assert.Equal(t, low, res.Data)
		repo.AssertExpectations(t)
	})

	t.Run("type and low stock", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ListByTypeLowStockWithMovementCounts", ctx, "bebida").Return(lowByType, nil).Once()
		svc := services.NewProductService(repo, nil, nil, logger.Nop())

		res, err := svc.ListProducts(ctx, services.ListFilter{Type: "bebida", LowStockOnly: true})
		require.NoError(t, err)
		assert.Equal(t, lowByType, res.Data)
		repo.AssertNotCalled(t, "ListAll", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ListByType", ctx, "higiene").Return([]models.Product(nil), nil).Once()
		svc := services.NewProductService(repo, nil, nil, logger.Nop())

		res, err := svc.ListProducts(ctx, services.ListFilter{Type: "higiene"})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Equal(t, []models.Product{}, res.Data)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ListLowStock", ctx).Return([]models.LowStockProduct(nil), errors.New("db down")).Once()
		svc := services.NewProductService(repo, nil, nil, logger.Nop())

		_, err := svc.ListProducts(ctx, services.ListFilter{LowStockOnly: true})
		assert.Error(t, err)
	})
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	pub := new(MockPublisher)
	svc := services.NewProductService(repo, nil, pub, logger.Nop())

	input := &models.Product{Name: "Cafe", Type: "alimento", Unit: "kg", MinStock: decimal.NewFromInt(2), CurrentStock: decimal.NewFromInt(5)}
	stored := &models.Product{ID: 7, Name: "Cafe", Type: "alimento", Unit: "kg", MinStock: decimal.NewFromInt(2), CurrentStock: decimal.NewFromInt(5)}

	repo.On("Create", ctx, input).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = 7
	}).Return(nil).Once()
	repo.On("GetByID", ctx, uint(7)).Return(stored, nil).Once()
	pub.On("Publish", services.EventProductCreated, mock.MatchedBy(func(e services.InventoryEvent) bool {
		return e.ProductID == 7 && e.ProductName == "Cafe"
	})).Return(nil).Once()

	created, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, stored, created)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)

	// A broker failure does not fail the request.
	repo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	repo.On("GetByID", ctx, mock.AnythingOfType("uint")).Return(stored, nil).Once()
	pub.On("Publish", services.EventProductCreated, mock.Anything).Return(errors.New("broker down")).Once()
	_, err = svc.CreateProduct(ctx, &models.Product{Name: "Cha"})
	assert.NoError(t, err)

	// Database failure surfaces.
	repo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(errors.New("disk full")).Once()
	_, err = svc.CreateProduct(ctx, &models.Product{Name: "Mate"})
	assert.Error(t, err)
}

func TestProductService_GetProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := services.NewProductService(repo, nil, nil, logger.Nop())

	expected := &models.Product{ID: 1, Name: "Arroz"}
	repo.On("GetByID", ctx, uint(1)).Return(expected, nil).Once()
	product, err := svc.GetProduct(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	repo.On("GetByID", ctx, uint(99)).Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrNotFound)).Once()
	product, err = svc.GetProduct(ctx, 99)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.Nil(t, product)
	repo.AssertExpectations(t)
}

func TestProductService_ProductHistory(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	movRepo := new(MockMovementRepository)
	svc := services.NewProductService(repo, movRepo, nil, logger.Nop())

	product := &models.Product{ID: 3, Name: "Suco", CurrentStock: decimal.NewFromInt(8)}
	movements := []models.MovementWithProduct{
		{Movement: models.Movement{ID: 10, ProductID: 3}, ProductName: "Suco"},
		{Movement: models.Movement{ID: 9, ProductID: 3}, ProductName: "Suco"},
	}
	repo.On("GetByID", ctx, uint(3)).Return(product, nil).Once()
	movRepo.On("ListByProduct", ctx, uint(3)).Return(movements, nil).Once()

	history, err := svc.ProductHistory(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), history.Product.ID)
	assert.Equal(t, "Suco", history.Product.Name)
	assert.True(t, history.Product.CurrentStock.Equal(decimal.NewFromInt(8)))
	assert.Len(t, history.Movements, 2)

	repo.On("GetByID", ctx, uint(4)).Return(nil, repositories.ErrNotFound).Once()
	_, err = svc.ProductHistory(ctx, 4)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	movRepo.AssertNotCalled(t, "ListByProduct", ctx, uint(4))
}
