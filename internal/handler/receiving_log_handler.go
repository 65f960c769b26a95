package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/service"
	"github.com/courtdesk/registry-api/internal/utils"
)

// ReceivingLogHandler exposes the incoming-document register endpoints.
type ReceivingLogHandler struct {
	service service.ReceivingLogService
	logger  zerolog.Logger
}

// NewReceivingLogHandler constructs the handler.
func NewReceivingLogHandler(service service.ReceivingLogService, logger zerolog.Logger) *ReceivingLogHandler {
	return &ReceivingLogHandler{
		service: service,
		logger:  logger.With().Str("component", "receiving_log_handler").Logger(),
	}
}

// Register attaches register routes to the router group.
func (h *ReceivingLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ReceivingLogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}
	year, err := parseQueryInt(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}

	req := dto.ReceivingLogListRequest{
		Page:       page,
		PageSize:   pageSize,
		Year:       year,
		CaseNumber: c.Query("case_number"),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list register entries")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list register entries")
	}

	return utils.SendSuccess(c, "register entries", response)
}

func (h *ReceivingLogHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateReceivingLogRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.Context(), payload)
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create register entry")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "register entry created", created)
}

func (h *ReceivingLogHandler) get(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	found, err := h.service.Get(c.Context(), id)
	if err != nil {
		status, message := statusForError(err)
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "register entry", found)
}

func (h *ReceivingLogHandler) update(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	var payload dto.UpdateReceivingLogRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update register entry")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "register entry updated", updated)
}

func (h *ReceivingLogHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete register entry")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "register entry deleted", nil)
}
