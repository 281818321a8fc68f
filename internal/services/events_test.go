package services_test

import (
	"encoding/json"
	"testing"

	"estoque/internal/services"
	"estoque/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryEventHandler_Handle(t *testing.T) {
	h := services.NewInventoryEventHandler(logger.Nop())

	body, err := json.Marshal(services.InventoryEvent{
		ProductID:    1,
		ProductName:  "Arroz",
		CurrentStock: decimal.NewFromInt(1),
		MinStock:     decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	assert.NoError(t, h.Handle(services.EventStockLow, body))
	assert.NoError(t, h.Handle(services.EventMovementRecorded, body))
	assert.Error(t, h.Handle(services.EventStockLow, []byte("not json")))
}
