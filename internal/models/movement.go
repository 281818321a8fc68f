package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement directions.
const (
	MovementEntry = "entrada"
	MovementExit  = "saida"
)

// Movement records stock entering or leaving for a product.
type Movement struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	ProductID    uint            `json:"produto_id" gorm:"not null;index"`
	Type         string          `json:"tipo" gorm:"type:varchar(10);not null"`
	Quantity     decimal.Decimal `json:"quantidade" gorm:"type:decimal(12,2);not null"`
	MovementDate time.Time       `json:"data_movimento" gorm:"type:date;not null;index"`
	Observation  *string         `json:"observacao" gorm:"type:varchar(255)"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Delta returns the signed stock change the movement applies.
func (m Movement) Delta() decimal.Decimal {
	if m.Type == MovementExit {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// MovementWithProduct is a movement joined with the name of its product.
type MovementWithProduct struct {
	Movement
	ProductName string `json:"produto_nome"`
}
