package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/service"
	"github.com/courtdesk/registry-api/internal/utils"
)

// AuthHandler exposes sign-in and password lifecycle endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the endpoints that work without a session.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/login", h.login)
	router.Post("/set-password", h.setPassword)
}

// RegisterProtected attaches the endpoints that require a session.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/logout", h.logout)
	router.Post("/password", h.changePassword)
}

// RegisterAdmin attaches the admin-only account recovery endpoints.
func (h *AuthHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/magic-link", h.sendMagicLink)
	router.Post("/reset-password/:id", h.resetPassword)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.Context(), payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "signed in", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.Context(), actorFromContext(c), clientInfo(c)); err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("logout failed")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "signed out", nil)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.ChangePassword(c.Context(), actorFromContext(c), payload, clientInfo(c)); err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("password change failed")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "password changed", nil)
}

func (h *AuthHandler) sendMagicLink(c *fiber.Ctx) error {
	var payload dto.MagicLinkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	token, err := h.service.SendMagicLink(c.Context(), actorFromContext(c), payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("magic link failed")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "magic link issued", fiber.Map{"token": token})
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	token, err := h.service.ResetPassword(c.Context(), actorFromContext(c), userID, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("password reset failed")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "password reset", fiber.Map{"token": token})
}

func (h *AuthHandler) setPassword(c *fiber.Ctx) error {
	var payload dto.SetPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.SetInitialPassword(c.Context(), payload, clientInfo(c)); err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("set password failed")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "password set", nil)
}
