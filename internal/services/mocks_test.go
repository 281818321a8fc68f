package services_test

import (
	"context"
	"time"

	"estoque/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) ListByType(ctx context.Context, productType string) ([]models.Product, error) {
	args := m.Called(ctx, productType)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context) ([]models.LowStockProduct, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.LowStockProduct), args.Error(1)
}

func (m *MockProductRepository) ListByTypeLowStockWithMovementCounts(ctx context.Context, productType string) ([]models.LowStockProductWithMovements, error) {
	args := m.Called(ctx, productType)
	return args.Get(0).([]models.LowStockProductWithMovements), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMovementRepository is a mock implementation of repositories.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) ListByProduct(ctx context.Context, productID uint) ([]models.MovementWithProduct, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]models.MovementWithProduct), args.Error(1)
}

func (m *MockMovementRepository) Record(ctx context.Context, movement *models.Movement) (*models.Product, error) {
	args := m.Called(ctx, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTokenStore is a mock implementation of repositories.TokenStore
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(eventType string, payload interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}
