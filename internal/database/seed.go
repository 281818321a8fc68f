package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"estoque/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var demoNames = []string{
	"Arroz Integral", "Feijão Carioca", "Café Torrado", "Suco de Uva", "Água Mineral",
	"Detergente Neutro", "Água Sanitária", "Sabonete Líquido", "Papel Higiênico", "Creme Dental",
}

// SeedDemoData fills an empty products table with demo products and movementCount random
// movements. Movements are inserted as history only; stock values are left as generated.
func SeedDemoData(ctx context.Context, db *gorm.DB, rng *rand.Rand, movementCount int) (int, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	products := make([]models.Product, 0, len(demoNames))
	for _, name := range demoNames {
		products = append(products, models.Product{
			Name:         name,
			Type:         models.ProductTypes[rng.IntN(len(models.ProductTypes))],
			Unit:         models.Units[rng.IntN(len(models.Units))],
			MinStock:     randomAmount(rng, 5, 20),
			CurrentStock: randomAmount(rng, 0, 200),
		})
	}
	if err := db.WithContext(ctx).Create(&products).Error; err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	movements := make([]models.Movement, 0, movementCount)
	for i := 0; i < movementCount; i++ {
		m := models.Movement{
			ProductID:    products[rng.IntN(len(products))].ID,
			Type:         models.MovementEntry,
			Quantity:     randomAmount(rng, 1, 50),
			MovementDate: today.AddDate(0, 0, -rng.IntN(90)),
		}
		if rng.IntN(2) == 0 {
			m.Type = models.MovementExit
		}
		if rng.IntN(2) == 0 {
			obs := "Movimentação de demonstração"
			m.Observation = &obs
		}
		movements = append(movements, m)
	}
	if len(movements) > 0 {
		if err := db.WithContext(ctx).Create(&movements).Error; err != nil {
			return 0, fmt.Errorf("failed to seed movements: %w", err)
		}
	}
	return len(products), nil
}

// randomAmount returns a value in [lo, hi) with two decimal places.
func randomAmount(rng *rand.Rand, lo, hi int) decimal.Decimal {
	cents := lo*100 + rng.IntN((hi-lo)*100)
	return decimal.New(int64(cents), -2)
}
