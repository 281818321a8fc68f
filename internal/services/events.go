package services

import (
	"encoding/json"
	"time"

	"estoque/pkg/logger"

	"github.com/shopspring/decimal"
)

// Inventory event types published on the message broker.
const (
	EventProductCreated   = "product.created"
	EventMovementRecorded = "movement.recorded"
	EventStockLow         = "stock.low"
)

// EventPublisher sends inventory events to the broker.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// InventoryEvent is the body of every inventory event.
type InventoryEvent struct {
	ProductID    uint             `json:"produto_id"`
	ProductName  string           `json:"nome"`
	MovementID   uint             `json:"movimentacao_id,omitempty"`
	MovementType string           `json:"tipo_movimentacao,omitempty"`
	Quantity     *decimal.Decimal `json:"quantidade,omitempty"`
	CurrentStock decimal.Decimal  `json:"estoque_atual"`
	MinStock     decimal.Decimal  `json:"estoque_minimo"`
	OccurredAt   time.Time        `json:"ocorrido_em"`
}

// publish sends the event when a publisher is configured. Failures are logged, not
// returned: the database write already succeeded.
func publish(pub EventPublisher, log *logger.Logger, eventType string, event InventoryEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(eventType, event); err != nil {
		log.Warn().Err(err).Str("event", eventType).Uint("produto_id", event.ProductID).Msg("failed to publish inventory event")
		return
	}
	log.Debug().Str("event", eventType).Uint("produto_id", event.ProductID).Msg("inventory event published")
}

// InventoryEventHandler consumes inventory events from the broker.
type InventoryEventHandler struct {
	log *logger.Logger
}

// NewInventoryEventHandler creates a new InventoryEventHandler.
func NewInventoryEventHandler(log *logger.Logger) *InventoryEventHandler {
	return &InventoryEventHandler{log: log}
}

// Handle logs low stock alerts as warnings and every other event as info.
// A body that does not decode is returned as an error so the consumer drops it.
func (h *InventoryEventHandler) Handle(eventType string, body []byte) error {
	var event InventoryEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}

	switch eventType {
	case EventStockLow:
		h.log.Warn().
			Uint("produto_id", event.ProductID).
			Str("nome", event.ProductName).
			Str("estoque_atual", event.CurrentStock.String()).
			Str("estoque_minimo", event.MinStock.String()).
			Msg("product below minimum stock")
	default:
		h.log.Info().
			Str("event", eventType).
			Uint("produto_id", event.ProductID).
			Str("estoque_atual", event.CurrentStock.String()).
			Msg("inventory event received")
	}
	return nil
}
