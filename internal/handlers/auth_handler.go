package handlers

import (
	"errors"
	"strings"

	"estoque/internal/middleware"
	"estoque/internal/services"
	"estoque/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.Component("AuthHandler"),
	}
}

// RegisterRoutes registers the public and the guarded authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/me", guard, h.HandleMe)
	router.Post("/logout", guard, h.HandleLogout)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// normalizeEmail makes addresses differing only in case or surrounding spaces the same account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func authFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// HandleRegister creates a user account. Each required field is checked in turn so the
// first missing one names itself in the response.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Warn().Err(err).Msg("invalid register request body")
		return authFailure(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	switch {
	case req.Name == "":
		return authFailure(c, fiber.StatusBadRequest, "Nome obrigatório")
	case req.Email == "":
		return authFailure(c, fiber.StatusBadRequest, "Email obrigatório")
	case req.Password == "":
		return authFailure(c, fiber.StatusBadRequest, "Senha obrigatória")
	}

	user, err := h.authService.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return authFailure(c, fiber.StatusBadRequest, "Email já cadastrado")
		}
		h.log.Error().Err(err).Msg("failed to register user")
		return authFailure(c, fiber.StatusInternalServerError, "Erro ao criar usuário")
	}

	h.log.Info().Uint("user_id", user.ID).Msg("user registered")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Usuário criado com sucesso",
		"user_id": user.ID,
	})
}

// HandleLogin checks the credentials and issues a bearer token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Warn().Err(err).Msg("invalid login request body")
		return authFailure(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}

	token, user, err := h.authService.Login(c.UserContext(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return authFailure(c, fiber.StatusUnauthorized, "Email ou senha inválidos")
		}
		h.log.Error().Err(err).Msg("login failed")
		return authFailure(c, fiber.StatusInternalServerError, "Erro ao realizar login")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// HandleMe returns the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return authFailure(c, fiber.StatusUnauthorized, "Não autenticado")
	}

	user, err := h.authService.CurrentUser(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return authFailure(c, fiber.StatusUnauthorized, "Usuário não encontrado")
		}
		h.log.Error().Err(err).Uint("user_id", claims.UserID).Msg("failed to load current user")
		return authFailure(c, fiber.StatusInternalServerError, "Erro ao buscar usuário")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// HandleLogout revokes the token used for the request.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return authFailure(c, fiber.StatusUnauthorized, "Não autenticado")
	}

	if err := h.authService.Logout(c.UserContext(), claims); err != nil {
		h.log.Error().Err(err).Uint("user_id", claims.UserID).Msg("logout failed")
		return authFailure(c, fiber.StatusInternalServerError, "Erro ao realizar logout")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logout realizado com sucesso",
	})
}
