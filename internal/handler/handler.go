package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/auth"
	"github.com/faroemiliano/backBarberia1991/internal/schedule"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/labstack/echo/v4"
)

// Middlewares are the route guards main wires in. RateLimit may be nil.
type Middlewares struct {
	Auth      echo.MiddlewareFunc
	Admin     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

func (m Middlewares) limited(extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	var out []echo.MiddlewareFunc
	if m.RateLimit != nil {
		out = append(out, m.RateLimit)
	}
	return append(out, extra...)
}

// adminGroup is /api/v1/admin behind auth and the admin check.
func (m Middlewares) adminGroup(e *echo.Echo) *echo.Group {
	return e.Group("/api/v1/admin", m.Auth, m.Admin)
}

// toHTTPError maps service sentinels to status codes. Anything unknown is
// returned as is and becomes a 500.
func toHTTPError(err error) error {
	status := 0
	switch {
	case errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrServiceNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrSlotHasAppointment),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrServiceNameTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidService),
		errors.Is(err, service.ErrPastSlot),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrRebuildNotConfirmed):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrRebuildDisabled):
		status = http.StatusForbidden
	case errors.Is(err, auth.ErrGoogleDisabled):
		status = http.StatusServiceUnavailable
	default:
		return err
	}
	return echo.NewHTTPError(status, err.Error())
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

func parseID(c echo.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+what+" id")
	}
	return uint(id), nil
}

// dateParam parses an optional YYYY-MM-DD query parameter.
func dateParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := schedule.ParseDay(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be YYYY-MM-DD")
	}
	return &d, nil
}

func dateRange(c echo.Context) (from, to *time.Time, err error) {
	if from, err = dateParam(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = dateParam(c, "to"); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "to must not be before from")
	}
	return from, to, nil
}
