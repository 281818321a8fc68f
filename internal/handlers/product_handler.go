package handlers

import (
	"errors"
	"strconv"

	"estoque/internal/models"
	"estoque/internal/services"
	"estoque/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	log      *logger.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
		log:      log.Component("ProductHandler"),
	}
}

// RegisterRoutes registers the product routes behind guard.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	productRoutes := router.Group("/produtos", guard)
	productRoutes.Get("/", h.HandleList)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Get("/:id", h.HandleShow)
	productRoutes.Get("/:id/historico", h.HandleHistory)
}

// CreateProductRequest is the body accepted by POST /produtos.
// Stock fields are pointers so that an explicit zero passes "required".
type CreateProductRequest struct {
	Name         string   `json:"nome" validate:"required,max=70"`
	Type         string   `json:"tipo" validate:"required,oneof=alimento bebida limpeza higiene"`
	Unit         string   `json:"unidade" validate:"required,oneof=un kg lt cx"`
	MinStock     *float64 `json:"estoque_minimo" validate:"required,gte=0,decimal2"`
	CurrentStock *float64 `json:"estoque_atual" validate:"required,gte=0,decimal2"`
}

func (r CreateProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:         r.Name,
		Type:         r.Type,
		Unit:         r.Unit,
		MinStock:     decimal.NewFromFloat(*r.MinStock),
		CurrentStock: decimal.NewFromFloat(*r.CurrentStock),
	}
}

func productError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

func invalidInput(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"status":  "error",
		"message": "Dados inválidos",
		"errors":  errs,
	})
}

// parseProductID accepts only unsigned decimal ids.
func parseProductID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// HandleList lists products. The optional query parameters tipo and estoque_baixo=true
// select one of four listings.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	filter := services.ParseListFilter(c.Query("tipo"), c.Query("estoque_baixo"))
	h.log.Info().Str("tipo", filter.Type).Bool("estoque_baixo", filter.LowStockOnly).Msg("listing products")

	result, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		h.log.Error().Err(err).Str("filter", filter.Variant().String()).Msg("failed to list products")
		return productError(c, fiber.StatusInternalServerError, "Erro ao buscar produtos")
	}

	body := fiber.Map{
		"status":  "success",
		"filtros": result.Filters,
		"total":   result.Total,
		"data":    result.Data,
	}
	if result.Total == 0 {
		h.log.Warn().Str("filter", filter.Variant().String()).Msg("no products found")
		body["message"] = "Nenhum produto encontrado"
	} else {
		h.log.Info().Int("total", result.Total).Msg("products found")
	}
	return c.JSON(body)
}

// HandleCreate validates and stores a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		errs := bodyErrors(err)
		h.log.Warn().Err(err).Msg("invalid product body")
		return invalidInput(c, errs)
	}
	if err := h.validate.Struct(req); err != nil {
		errs := validationErrors(err)
		h.log.Warn().Interface("errors", errs).Msg("product validation failed")
		return invalidInput(c, errs)
	}

	product, err := h.service.CreateProduct(c.UserContext(), req.toModel())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create product")
		return productError(c, fiber.StatusInternalServerError, "Erro ao criar produto")
	}

	h.log.Info().Uint("id", product.ID).Msg("product created")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Produto criado com sucesso",
		"data":    product,
	})
}

// HandleShow returns one product.
func (h *ProductHandler) HandleShow(c *fiber.Ctx) error {
	id, ok := parseProductID(c)
	if !ok {
		h.log.Warn().Str("id", c.Params("id")).Msg("invalid product id")
		return productError(c, fiber.StatusBadRequest, "ID do produto inválido")
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			h.log.Warn().Uint("id", id).Msg("product not found")
			return productError(c, fiber.StatusNotFound, "Produto não encontrado")
		}
		h.log.Error().Err(err).Uint("id", id).Msg("failed to get product")
		return productError(c, fiber.StatusInternalServerError, "Erro ao buscar produto")
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   product,
	})
}

// HandleHistory returns a product summary with its movements, newest first.
func (h *ProductHandler) HandleHistory(c *fiber.Ctx) error {
	id, ok := parseProductID(c)
	if !ok {
		h.log.Warn().Str("id", c.Params("id")).Msg("invalid product id for history")
		return productError(c, fiber.StatusBadRequest, "ID do produto inválido")
	}

	history, err := h.service.ProductHistory(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			h.log.Warn().Uint("id", id).Msg("product not found for history")
			return productError(c, fiber.StatusNotFound, "Produto não encontrado")
		}
		h.log.Error().Err(err).Uint("id", id).Msg("failed to load product history")
		return productError(c, fiber.StatusInternalServerError, "Erro ao buscar histórico")
	}

	h.log.Info().Uint("id", id).Int("total_movimentacoes", len(history.Movements)).Msg("history found")
	return c.JSON(fiber.Map{
		"status":              "success",
		"produto":             history.Product,
		"total_movimentacoes": len(history.Movements),
		"movimentacoes":       history.Movements,
	})
}
