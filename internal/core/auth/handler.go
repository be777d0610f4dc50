package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	authService *Service
}

// NewHandler creates a new auth handler
func NewHandler(authService *Service) *Handler {
	return &Handler{authService: authService}
}

// Login godoc
// @Summary Login with email and password
// @Description Authenticate a dashboard user and issue access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authResponse, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Warn().Str("email", req.Email).Msg("Login failed")
			return unauthorized(c, "Invalid email or password")
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Login error")
		return internalError(c, "Failed to login")
	}

	return c.JSON(authResponse)
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Get new access token using refresh token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/refresh [post]
func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	authResponse, err := h.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrRefreshRevoked) {
			return unauthorized(c, "Invalid or expired refresh token")
		}
		log.Error().Err(err).Msg("Token refresh error")
		return internalError(c, "Failed to refresh token")
	}

	return c.JSON(authResponse)
}

// Logout godoc
// @Summary Logout user
// @Description Revoke user's refresh token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(c *fiber.Ctx) error {
	userID, ok := c.Locals(LocalUserID).(string)
	if !ok {
		return unauthorized(c, "Unauthorized")
	}

	if err := h.authService.Logout(c.UserContext(), userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Logout failed")
		return internalError(c, "Failed to logout")
	}

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// Me godoc
// @Summary Get current user
// @Description Get authenticated user information
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserInfo
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals(LocalUserID).(string)
	if !ok {
		return unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.Me(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return unauthorized(c, "User no longer active")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load user")
		return internalError(c, "Failed to load user")
	}

	return c.JSON(user)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "invalid_request",
		"message": message,
	})
}

func internalError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": message,
	})
}
