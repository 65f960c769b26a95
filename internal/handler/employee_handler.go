package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtdesk/registry-api/internal/dto"
	"github.com/courtdesk/registry-api/internal/service"
	"github.com/courtdesk/registry-api/internal/utils"
)

// EmployeeHandler exposes staff directory endpoints.
type EmployeeHandler struct {
	service service.EmployeeService
	logger  zerolog.Logger
}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler(service service.EmployeeService, logger zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger.With().Str("component", "employee_handler").Logger(),
	}
}

// Register attaches employee routes to the router group.
func (h *EmployeeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/export", h.export)
	router.Post("/import", h.importCSV)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *EmployeeHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	req := dto.EmployeeListRequest{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		Department: c.Query("department"),
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list employees")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list employees")
	}

	return utils.SendSuccess(c, "employees", response)
}

func (h *EmployeeHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateEmployeeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.Create(c.Context(), actorFromContext(c), payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create employee")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "employee created", created)
}

func (h *EmployeeHandler) get(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	found, err := h.service.Get(c.Context(), id)
	if err != nil {
		status, message := statusForError(err)
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "employee", found)
}

func (h *EmployeeHandler) update(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	var payload dto.UpdateEmployeeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Context(), actorFromContext(c), id, payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update employee")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "employee updated", updated)
}

func (h *EmployeeHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid employee id")
	}

	if err := h.service.Delete(c.Context(), actorFromContext(c), id, clientInfo(c)); err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete employee")
		}
		return utils.SendError(c, status, message)
	}

	return utils.SendSuccess(c, "employee deleted", nil)
}

func (h *EmployeeHandler) importCSV(c *fiber.Ctx) error {
	payload, err := filePayload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "missing import file")
	}

	result, err := h.service.Import(c.Context(), actorFromContext(c), payload, clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("employee import failed")
			return utils.SendError(c, status, message)
		}
		return utils.SendError(c, status, err.Error())
	}

	return utils.SendSuccess(c, "employees imported", result)
}

func (h *EmployeeHandler) export(c *fiber.Ctx) error {
	data, err := h.service.Export(c.Context(), actorFromContext(c), clientInfo(c))
	if err != nil {
		status, message := statusForError(err)
		if status == fiber.StatusInternalServerError {
			requestLogger(h.logger, c).Error().Err(err).Msg("employee export failed")
		}
		return utils.SendError(c, status, message)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="employees-%s.csv"`, time.Now().Format("2006-01-02")))
	return c.Send(data)
}
