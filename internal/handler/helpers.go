package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/middleware"
	"github.com/courtdesk/registry-api/internal/service"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseParamUint(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(string); ok {
			return strings.TrimSpace(id)
		}
	}
	return ""
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// actorFromContext returns the authenticated principal, or nil when the
// request carries no session.
func actorFromContext(c *fiber.Ctx) *service.Actor {
	id := userIDFromContext(c)
	if id == "" {
		return nil
	}
	return &service.Actor{ID: id, Role: userRoleFromContext(c)}
}

func clientInfo(c *fiber.Ctx) service.ClientInfo {
	return service.ClientInfo{
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// statusForError maps service sentinel errors onto HTTP responses. Unmapped
// errors come back as a fixed internal-error message; the cause stays in the
// logs.
func statusForError(err error) (int, string) {
	switch {
	case isValidationError(err):
		return fiber.StatusBadRequest, "invalid payload"
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized, "authentication required"
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden, "insufficient permissions"
	case errors.Is(err, service.ErrAccountInactive):
		return fiber.StatusForbidden, "account is deactivated"
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, "record not found"
	case errors.Is(err, service.ErrTokenExpired):
		return fiber.StatusBadRequest, "token is expired or invalid"
	case errors.Is(err, service.ErrDuplicate):
		return fiber.StatusConflict, "record already exists"
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}
