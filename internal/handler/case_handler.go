package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/service"
	"github.com/courtdesk/registry-api/internal/utils"
)

// CaseHandler exposes docket management endpoints.
type CaseHandler struct {
	service service.CaseService
	logger  zerolog.Logger
}

// NewCaseHandler constructs the handler.
func NewCaseHandler(service service.CaseService, logger zerolog.Logger) *CaseHandler {
	return &CaseHandler{
		service: service,
		logger:  logger.With().Str("component", "case_handler").Logger(),
	}
}

// Register attaches case routes to the router group.
func (h *CaseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/export", h.export)
	router.Post("/import", h.importCSV)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *CaseHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	req := dto.CaseListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		CaseType: c.Query("case_type"),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list cases")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list cases")
	}

	return utils.SendSuccess(c, "cases", response)
}

func (h *CaseHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateCaseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.Context(), actorFromContext(c), payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create case")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "case created", created)
}

func (h *CaseHandler) get(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid case id")
	}

	found, err := h.service.Get(c.Context(), id)
	if err != nil {
		status, message := statusForError(err)
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "case", found)
}

func (h *CaseHandler) update(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid case id")
	}

	var payload dto.UpdateCaseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Context(), actorFromContext(c), id, payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update case")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "case updated", updated)
}

func (h *CaseHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid case id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id, clientInfo(c)); err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete case")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "case deleted", nil)
}

func (h *CaseHandler) importCSV(c *fiber.Ctx) error {
	payload, err := filePayload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "missing import file")
	}

	result, err := h.service.Import(c.Context(), actorFromContext(c), payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("case import failed")
			return utils.SendError(c, status, message)
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccess(c, "cases imported", result)
}

func (h *CaseHandler) export(c *fiber.Ctx) error {
	data, err := h.service.Export(c.Context(), actorFromContext(c), clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("case export failed")
		}
		return utils.SendError(c, status, message)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="cases-%s.csv"`, time.Now().Format("2006-01-02")))
	return c.Send(data)
}

// filePayload reads the uploaded CSV from a multipart "file" field, falling
// back to the raw request body for clients that post the bytes directly.
func filePayload(c *fiber.Ctx) ([]byte, error) {
	if header, err := c.FormFile("file"); err == nil {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	body := c.Body()
	if len(body) == 0 {
		return nil, fiber.ErrBadRequest
	}
	return body, nil
}
