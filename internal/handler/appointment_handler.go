package handler

import (
	"net/http"

	"github.com/faroemiliano/backBarberia1991/internal/dto"
	"github.com/faroemiliano/backBarberia1991/internal/middleware"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/labstack/echo/v4"
)

type AppointmentHandler struct {
	reservations service.ReservationService
	appointments service.AppointmentService
}

func NewAppointmentHandler(reservations service.ReservationService, appointments service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{reservations: reservations, appointments: appointments}
}

func (h *AppointmentHandler) RegisterRoutes(e *echo.Echo, mw Middlewares) {
	appts := e.Group("/api/v1/appointments", mw.Auth)
	appts.POST("", h.Reserve, mw.limited()...)
	appts.GET("/mine", h.ListMine)

	admin := mw.adminGroup(e)
	admin.GET("/appointments", h.List)
	admin.PATCH("/appointments/:id", h.Edit)
	admin.DELETE("/appointments/:id", h.Cancel)
}

func (h *AppointmentHandler) Reserve(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	}

	var req dto.ReserveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.reservations.Reserve(c.Request().Context(), service.ReserveInput{
		UserID:     userID,
		ClientName: req.ClientName,
		Phone:      req.Phone,
		ServiceID:  req.ServiceID,
		SlotID:     req.SlotID,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ReserveResponse{
		AppointmentID: res.Appointment.ID,
		Appointment:   dto.ToAppointmentResponse(res.Appointment),
		Notification:  res.Notification,
	})
}

func (h *AppointmentHandler) ListMine(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	}
	appts, err := h.appointments.ListMine(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAppointmentResponses(appts))
}

func (h *AppointmentHandler) List(c echo.Context) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}
	appts, err := h.appointments.List(c.Request().Context(), from, to)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAppointmentResponses(appts))
}

func (h *AppointmentHandler) Edit(c echo.Context) error {
	id, err := parseID(c, "appointment")
	if err != nil {
		return err
	}
	var req dto.EditAppointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.appointments.Edit(c.Request().Context(), id, service.EditInput{
		SlotID:    req.SlotID,
		ServiceID: req.ServiceID,
		Phone:     req.Phone,
		Price:     req.Price,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.EditResponse{
		Appointment:  dto.ToAppointmentResponse(res.Appointment),
		Notification: res.Notification,
	})
}

func (h *AppointmentHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "appointment")
	if err != nil {
		return err
	}
	res, err := h.appointments.Cancel(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.CancelResponse{
		AppointmentID: res.AppointmentID,
		SlotID:        res.SlotID,
		Notification:  res.Notification,
	})
}
