package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/dto"
	"github.com/faroemiliano/backBarberia1991/internal/middleware"
	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/notification"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAppointment() *models.Appointment {
	return &models.Appointment{
		ID:          1,
		ClientName:  "Juan",
		ClientPhone: "1155550000",
		SlotID:      10,
		ServiceID:   3,
		Price:       15000,
		Slot:        &models.Slot{ID: 10, Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), TimeOfDay: "11:00"},
		Service:     &models.Service{ID: 3, Name: "Corte", Price: 15000, Active: true},
	}
}

func TestReserve_Handler_Success(t *testing.T) {
	var got service.ReserveInput
	res := &mockReservationService{
		reserveFn: func(ctx context.Context, in service.ReserveInput) (*service.ReserveResult, error) {
			got = in
			return &service.ReserveResult{
				Appointment:  sampleAppointment(),
				Notification: notification.Outcome{Status: notification.StatusSent},
			}, nil
		},
	}

	c, rec := newContext(http.MethodPost, "/api/v1/appointments", `{"phone":"1155550000","service_id":3,"slot_id":10}`)
	middleware.SetCaller(c, 42, false)

	err := NewAppointmentHandler(res, nil).Reserve(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, service.ReserveInput{UserID: 42, Phone: "1155550000", ServiceID: 3, SlotID: 10}, got)

	var resp dto.ReserveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.AppointmentID)
	assert.Equal(t, notification.StatusSent, resp.Notification.Status)
	assert.Equal(t, "2026-03-03", resp.Appointment.Date)
	assert.Equal(t, "Corte", resp.Appointment.Service)
}

func TestReserve_Handler_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"slot taken", service.ErrSlotUnavailable, http.StatusConflict},
		{"past", service.ErrPastSlot, http.StatusBadRequest},
		{"inactive service", service.ErrInvalidService, http.StatusBadRequest},
		{"stale token", service.ErrUnauthenticated, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &mockReservationService{
				reserveFn: func(ctx context.Context, in service.ReserveInput) (*service.ReserveResult, error) {
					return nil, tt.err
				},
			}
			c, _ := newContext(http.MethodPost, "/api/v1/appointments", `{"phone":"1","service_id":3,"slot_id":10}`)
			middleware.SetCaller(c, 42, false)

			assertHTTPError(t, NewAppointmentHandler(res, nil).Reserve(c), tt.code)
		})
	}
}

func TestReserve_Handler_Unauthenticated(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/v1/appointments", `{"phone":"1","service_id":3,"slot_id":10}`)

	assertHTTPError(t, NewAppointmentHandler(&mockReservationService{}, nil).Reserve(c), http.StatusUnauthorized)
}

func TestReserve_Handler_ValidationError(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/v1/appointments", `{"service_id":3}`)
	middleware.SetCaller(c, 42, false)

	assertHTTPError(t, NewAppointmentHandler(&mockReservationService{}, nil).Reserve(c), http.StatusBadRequest)
}

func TestEdit_Handler_PassesOnlyGivenFields(t *testing.T) {
	var got service.EditInput
	appts := &mockAppointmentService{
		editFn: func(ctx context.Context, id uint, in service.EditInput) (*service.EditResult, error) {
			assert.Equal(t, uint(1), id)
			got = in
			return &service.EditResult{Appointment: sampleAppointment(), Notification: notification.Skipped("no recipient")}, nil
		},
	}

	c, rec := newContext(http.MethodPatch, "/api/v1/admin/appointments/1", `{"price":12000}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewAppointmentHandler(nil, appts).Edit(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.SlotID)
	assert.Nil(t, got.ServiceID)
	assert.Nil(t, got.Phone)
	require.NotNil(t, got.Price)
	assert.Equal(t, 12000.0, *got.Price)
}

func TestEdit_Handler_Errors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{service.ErrAppointmentNotFound, http.StatusNotFound},
		{service.ErrSlotUnavailable, http.StatusConflict},
		{service.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("db down"), 0},
	}
	for _, tt := range tests {
		appts := &mockAppointmentService{
			editFn: func(ctx context.Context, id uint, in service.EditInput) (*service.EditResult, error) {
				return nil, tt.err
			},
		}
		c, _ := newContext(http.MethodPatch, "/api/v1/admin/appointments/1", `{"slot_id":5}`)
		c.SetParamNames("id")
		c.SetParamValues("1")

		err := NewAppointmentHandler(nil, appts).Edit(c)
		if tt.code == 0 {
			assert.EqualError(t, err, "db down")
			continue
		}
		assertHTTPError(t, err, tt.code)
	}
}

func TestEdit_Handler_InvalidID(t *testing.T) {
	c, _ := newContext(http.MethodPatch, "/api/v1/admin/appointments/abc", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	assertHTTPError(t, NewAppointmentHandler(nil, &mockAppointmentService{}).Edit(c), http.StatusBadRequest)
}

func TestCancel_Handler(t *testing.T) {
	appts := &mockAppointmentService{
		cancelFn: func(ctx context.Context, id uint) (*service.CancelResult, error) {
			if id == 404 {
				return nil, service.ErrAppointmentNotFound
			}
			return &service.CancelResult{AppointmentID: id, SlotID: 10, Notification: notification.Outcome{Status: notification.StatusSent}}, nil
		},
	}
	h := NewAppointmentHandler(nil, appts)

	c, rec := newContext(http.MethodDelete, "/api/v1/admin/appointments/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.CancelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(10), resp.SlotID)

	c, _ = newContext(http.MethodDelete, "/api/v1/admin/appointments/404", "")
	c.SetParamNames("id")
	c.SetParamValues("404")
	assertHTTPError(t, h.Cancel(c), http.StatusNotFound)
}

func TestList_Handler_ParsesRange(t *testing.T) {
	appts := &mockAppointmentService{
		listFn: func(ctx context.Context, from, to *time.Time) ([]models.Appointment, error) {
			require.NotNil(t, from)
			assert.Nil(t, to)
			assert.Equal(t, "2026-03-01", from.Format(models.DateLayout))
			return []models.Appointment{*sampleAppointment()}, nil
		},
	}

	c, rec := newContext(http.MethodGet, "/api/v1/admin/appointments?from=2026-03-01", "")
	require.NoError(t, NewAppointmentHandler(nil, appts).List(c))

	var resp []dto.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 15000.0, resp[0].Price)

	c, _ = newContext(http.MethodGet, "/api/v1/admin/appointments?from=03/01/2026", "")
	assertHTTPError(t, NewAppointmentHandler(nil, appts).List(c), http.StatusBadRequest)
}

func TestListMine_Handler(t *testing.T) {
	appts := &mockAppointmentService{
		listMineFn: func(ctx context.Context, userID uint) ([]models.Appointment, error) {
			assert.Equal(t, uint(42), userID)
			return nil, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/v1/appointments/mine", "")
	middleware.SetCaller(c, 42, false)

	require.NoError(t, NewAppointmentHandler(nil, appts).ListMine(c))
	assert.JSONEq(t, `[]`, rec.Body.String())
}
