package repositories_test

import (
	"context"
	"testing"
	"time"

	"estoque/internal/database"
	"estoque/internal/models"
	"estoque/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB opens a private in-memory sqlite database with the schema migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func insertProduct(t *testing.T, db *gorm.DB, name, productType string, current, min float64) models.Product {
	t.Helper()
	p := models.Product{
		Name:         name,
		Type:         productType,
		Unit:         models.UnitPiece,
		CurrentStock: dec(current),
		MinStock:     dec(min),
	}
	require.NoError(t, db.WithContext(context.Background()).Create(&p).Error)
	return p
}

func insertMovement(t *testing.T, db *gorm.DB, productID uint, day string, createdAt time.Time) models.Movement {
	t.Helper()
	date, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	m := models.Movement{
		ProductID:    productID,
		Type:         models.MovementEntry,
		Quantity:     dec(1),
		MovementDate: date,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}
