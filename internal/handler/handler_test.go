package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/middleware"
	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock ReservationService ---

type mockReservationService struct {
	reserveFn func(ctx context.Context, in service.ReserveInput) (*service.ReserveResult, error)
}

func (m *mockReservationService) Reserve(ctx context.Context, in service.ReserveInput) (*service.ReserveResult, error) {
	return m.reserveFn(ctx, in)
}

// --- Mock AppointmentService ---

type mockAppointmentService struct {
	editFn     func(ctx context.Context, id uint, in service.EditInput) (*service.EditResult, error)
	cancelFn   func(ctx context.Context, id uint) (*service.CancelResult, error)
	toggleFn   func(ctx context.Context, slotID uint) (*models.Slot, error)
	listFn     func(ctx context.Context, from, to *time.Time) ([]models.Appointment, error)
	listMineFn func(ctx context.Context, userID uint) ([]models.Appointment, error)
}

func (m *mockAppointmentService) Edit(ctx context.Context, id uint, in service.EditInput) (*service.EditResult, error) {
	return m.editFn(ctx, id, in)
}
func (m *mockAppointmentService) Cancel(ctx context.Context, id uint) (*service.CancelResult, error) {
	return m.cancelFn(ctx, id)
}
func (m *mockAppointmentService) ToggleSlot(ctx context.Context, slotID uint) (*models.Slot, error) {
	return m.toggleFn(ctx, slotID)
}
func (m *mockAppointmentService) List(ctx context.Context, from, to *time.Time) ([]models.Appointment, error) {
	return m.listFn(ctx, from, to)
}
func (m *mockAppointmentService) ListMine(ctx context.Context, userID uint) ([]models.Appointment, error) {
	return m.listMineFn(ctx, userID)
}

// --- helpers ---

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = middleware.NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, code, he.Code)
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{service.ErrSlotNotFound, http.StatusNotFound},
		{service.ErrAppointmentNotFound, http.StatusNotFound},
		{service.ErrSlotUnavailable, http.StatusConflict},
		{service.ErrSlotHasAppointment, http.StatusConflict},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrPastSlot, http.StatusBadRequest},
		{service.ErrInvalidService, http.StatusBadRequest},
		{service.ErrRebuildNotConfirmed, http.StatusBadRequest},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrRebuildDisabled, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assertHTTPError(t, toHTTPError(tt.err), tt.code)
		})
	}

	plain := assert.AnError
	assert.Same(t, plain, toHTTPError(plain))
}
