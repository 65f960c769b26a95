package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/service"
	"github.com/courtdesk/registry-api/internal/utils"
)

// UserHandler exposes staff account administration endpoints.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches account administration routes to the router group.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id/deactivate", h.deactivate)
	router.Patch("/:id/reactivate", h.reactivate)
	router.Patch("/:id/role", h.updateRole)
	router.Delete("/:id", h.delete)
}

// RegisterProfile attaches the self-service profile routes.
func (h *UserHandler) RegisterProfile(router fiber.Router) {
	router.Get("", h.profile)
	router.Put("", h.updateProfile)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	users, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list accounts")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list accounts")
	}
	return utils.SendSuccess(c, "accounts", users)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Create(c.Context(), actorFromContext(c), payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create account")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", user)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	user, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		status, message := statusForError(err)
		return utils.SendError(c, status, message)
	}
	return utils.SendSuccess(c, "account", user)
}

func (h *UserHandler) deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *UserHandler) reactivate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *UserHandler) setActive(c *fiber.Ctx, active bool) error {
	var err error
	if active {
		err = h.service.Reactivate(c.Context(), actorFromContext(c), c.Params("id"), clientInfo(c))
	} else {
		err = h.service.Deactivate(c.Context(), actorFromContext(c), c.Params("id"), clientInfo(c))
	}
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update account state")
		}
		return utils.SendError(c, status, message)
	}

	if active {
		return utils.SendSuccess(c, "account reactivated", nil)
	}
	return utils.SendSuccess(c, "account deactivated", nil)
}

func (h *UserHandler) updateRole(c *fiber.Ctx) error {
	var payload dto.UpdateRoleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.UpdateRole(c.Context(), actorFromContext(c), c.Params("id"), payload, clientInfo(c)); err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update role")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "role updated", nil)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), actorFromContext(c), c.Params("id"), clientInfo(c)); err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete account")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "account deleted", nil)
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	if actor == nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	user, err := h.service.Get(c.Context(), actor.ID)
	if err != nil {
		status, message := statusForError(err)
		return utils.SendError(c, status, message)
	}
	return utils.SendSuccess(c, "profile", user)
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.UpdateProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.UpdateProfile(c.Context(), actorFromContext(c), payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update profile")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "profile updated", user)
}
