package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/service"
	"github.com/courtdesk/registry-api/internal/utils"
)

// ActivityHandler serves the rendered audit trail.
type ActivityHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.AuditService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the activity feed route to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	items, err := h.service.ListView(c.Context(), actorFromContext(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to load activity log")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "activity log", items)
}
