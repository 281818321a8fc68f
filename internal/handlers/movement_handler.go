package handlers

import (
	"errors"
	"time"

	"estoque/internal/models"
	"estoque/internal/services"
	"estoque/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const movementDateLayout = "2006-01-02"

// MovementHandler handles HTTP requests for stock movements.
type MovementHandler struct {
	service  *services.MovementService
	validate *validator.Validate
	log      *logger.Logger
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(service *services.MovementService, log *logger.Logger) *MovementHandler {
	return &MovementHandler{
		service:  service,
		validate: newValidator(),
		log:      log.Component("MovementHandler"),
	}
}

// RegisterRoutes registers the movement routes behind guard.
func (h *MovementHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Post("/movimentacoes", guard, h.HandleCreate)
}

// CreateMovementRequest is the body accepted by POST /movimentacoes.
type CreateMovementRequest struct {
	ProductID    uint     `json:"produto_id" validate:"required"`
	Type         string   `json:"tipo" validate:"required,oneof=entrada saida"`
	Quantity     *float64 `json:"quantidade" validate:"required,gt=0,decimal2"`
	MovementDate string   `json:"data_movimento" validate:"required,datetime=2006-01-02"`
	Observation  *string  `json:"observacao" validate:"omitempty,max=255"`
}

func (r CreateMovementRequest) toModel() *models.Movement {
	date, _ := time.Parse(movementDateLayout, r.MovementDate)
	return &models.Movement{
		ProductID:    r.ProductID,
		Type:         r.Type,
		Quantity:     decimal.NewFromFloat(*r.Quantity),
		MovementDate: date,
		Observation:  r.Observation,
	}
}

// HandleCreate records an entry or exit and adjusts the product stock.
func (h *MovementHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateMovementRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Warn().Err(err).Msg("invalid movement body")
		return invalidInput(c, bodyErrors(err))
	}
	if err := h.validate.Struct(req); err != nil {
		errs := validationErrors(err)
		h.log.Warn().Interface("errors", errs).Msg("movement validation failed")
		return invalidInput(c, errs)
	}

	movement, err := h.service.RecordMovement(c.UserContext(), req.toModel())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			h.log.Warn().Uint("produto_id", req.ProductID).Msg("movement for unknown product")
			return productError(c, fiber.StatusNotFound, "Produto não encontrado")
		case errors.Is(err, services.ErrInsufficientStock):
			h.log.Warn().Uint("produto_id", req.ProductID).Float64("quantidade", *req.Quantity).Msg("insufficient stock")
			return invalidInput(c, FieldErrors{"quantidade": {"Estoque insuficiente para a saída."}})
		}
		h.log.Error().Err(err).Uint("produto_id", req.ProductID).Msg("failed to record movement")
		return productError(c, fiber.StatusInternalServerError, "Erro ao registrar movimentação")
	}

	h.log.Info().Uint("id", movement.ID).Uint("produto_id", movement.ProductID).Str("tipo", movement.Type).Msg("movement recorded")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Movimentação registrada com sucesso",
		"data":    movement,
	})
}
