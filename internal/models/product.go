package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product types accepted by the API.
const (
	ProductTypeFood     = "alimento"
	ProductTypeBeverage = "bebida"
	ProductTypeCleaning = "limpeza"
	ProductTypeHygiene  = "higiene"
)

// Units a product can be counted in.
const (
	UnitPiece = "un"
	UnitKilo  = "kg"
	UnitLiter = "lt"
	UnitBox   = "cx"
)

// ProductTypes lists the product types in validation order.
var ProductTypes = []string{ProductTypeFood, ProductTypeBeverage, ProductTypeCleaning, ProductTypeHygiene}

// Units lists the accepted units.
var Units = []string{UnitPiece, UnitKilo, UnitLiter, UnitBox}

// Product represents a stocked item.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"nome" gorm:"type:varchar(70);not null;index"`
	Type         string          `json:"tipo" gorm:"type:varchar(20);not null;index"`
	Unit         string          `json:"unidade" gorm:"type:varchar(5);not null"`
	MinStock     decimal.Decimal `json:"estoque_minimo" gorm:"type:decimal(12,2);not null;default:0"`
	CurrentStock decimal.Decimal `json:"estoque_atual" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Movements []Movement `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// IsLowStock reports whether the current stock is strictly below the minimum.
func (p Product) IsLowStock() bool {
	return p.CurrentStock.LessThan(p.MinStock)
}

// LowStockProduct is the projection returned by the low stock listing.
type LowStockProduct struct {
	ID           uint            `json:"id"`
	Name         string          `json:"nome"`
	CurrentStock decimal.Decimal `json:"estoque_atual"`
	MinStock     decimal.Decimal `json:"estoque_minimo"`
}

// LowStockProductWithMovements adds the number of recorded movements to LowStockProduct.
type LowStockProductWithMovements struct {
	ID             uint            `json:"id"`
	Name           string          `json:"nome"`
	CurrentStock   decimal.Decimal `json:"estoque_atual"`
	MinStock       decimal.Decimal `json:"estoque_minimo"`
	TotalMovements int64           `json:"total_movimentacoes"`
}

// ProductSummary is the short product view embedded in the history response.
type ProductSummary struct {
	ID           uint            `json:"id"`
	Name         string          `json:"nome"`
	CurrentStock decimal.Decimal `json:"estoque_atual"`
}
