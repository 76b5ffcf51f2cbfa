package handler

import (
	"net/http"

	"github.com/faroemiliano/backBarberia1991/internal/dto"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/labstack/echo/v4"
)

type CalendarHandler struct {
	calendar     service.CalendarService
	appointments service.AppointmentService
}

func NewCalendarHandler(calendar service.CalendarService, appointments service.AppointmentService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, appointments: appointments}
}

func (h *CalendarHandler) RegisterRoutes(e *echo.Echo, mw Middlewares) {
	e.GET("/api/v1/calendar", h.Available)

	admin := mw.adminGroup(e)
	admin.GET("/slots", h.ListSlots)
	admin.PATCH("/slots/:id/toggle", h.ToggleSlot)
	admin.POST("/calendar/generate", h.Generate)
	admin.POST("/calendar/rebuild", h.Rebuild)
}

func (h *CalendarHandler) Available(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	slots, err := h.calendar.ListAvailable(c.Request().Context(), from, to)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSlotResponses(slots))
}

func (h *CalendarHandler) ListSlots(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	slots, err := h.calendar.ListAll(c.Request().Context(), from, to)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSlotResponses(slots))
}

func (h *CalendarHandler) ToggleSlot(c echo.Context) error {
	id, err := parseID(c, "slot")
	if err != nil {
		return err
	}
	slot, err := h.appointments.ToggleSlot(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSlotResponse(slot))
}

func (h *CalendarHandler) Generate(c echo.Context) error {
	created, err := h.calendar.Generate(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.GenerateResponse{Created: created})
}

func (h *CalendarHandler) Rebuild(c echo.Context) error {
	var req dto.RebuildRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.calendar.Rebuild(c.Request().Context(), req.Confirm)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.GenerateResponse{Created: created})
}
