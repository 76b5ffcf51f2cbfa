package dto

import (
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/notification"
	"github.com/faroemiliano/backBarberia1991/internal/service"
)

type UserResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type SlotResponse struct {
	ID        uint   `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type ServiceResponse struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

type AppointmentResponse struct {
	ID         uint      `json:"id"`
	ClientName string    `json:"client_name"`
	Phone      string    `json:"phone"`
	SlotID     uint      `json:"slot_id"`
	Date       string    `json:"date,omitempty"`
	Time       string    `json:"time,omitempty"`
	ServiceID  uint      `json:"service_id"`
	Service    string    `json:"service,omitempty"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReserveResponse struct {
	AppointmentID uint                 `json:"appointment_id"`
	Appointment   AppointmentResponse  `json:"appointment"`
	Notification  notification.Outcome `json:"notification"`
}

type EditResponse struct {
	Appointment  AppointmentResponse  `json:"appointment"`
	Notification notification.Outcome `json:"notification"`
}

type CancelResponse struct {
	AppointmentID uint                 `json:"appointment_id"`
	SlotID        uint                 `json:"slot_id"`
	Notification  notification.Outcome `json:"notification"`
}

type GenerateResponse struct {
	Created int64 `json:"created"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

func ToAuthResponse(r *service.AuthResult) AuthResponse {
	return AuthResponse{AccessToken: r.AccessToken, TokenType: "bearer", User: ToUserResponse(r.User)}
}

func ToSlotResponse(s *models.Slot) SlotResponse {
	return SlotResponse{ID: s.ID, Date: s.DateString(), Time: s.TimeOfDay, Available: s.Available}
}

func ToSlotResponses(slots []models.Slot) []SlotResponse {
	resp := make([]SlotResponse, len(slots))
	for i := range slots {
		resp[i] = ToSlotResponse(&slots[i])
	}
	return resp
}

func ToServiceResponse(s *models.Service) ServiceResponse {
	return ServiceResponse{ID: s.ID, Name: s.Name, Price: s.Price, Active: s.Active}
}

func ToServiceResponses(services []models.Service) []ServiceResponse {
	resp := make([]ServiceResponse, len(services))
	for i := range services {
		resp[i] = ToServiceResponse(&services[i])
	}
	return resp
}

func ToAppointmentResponse(a *models.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:         a.ID,
		ClientName: a.ClientName,
		Phone:      a.ClientPhone,
		SlotID:     a.SlotID,
		ServiceID:  a.ServiceID,
		Price:      a.Price,
		CreatedAt:  a.CreatedAt,
	}
	if a.Slot != nil {
		resp.Date = a.Slot.DateString()
		resp.Time = a.Slot.TimeOfDay
	}
	if a.Service != nil {
		resp.Service = a.Service.Name
	}
	return resp
}

func ToAppointmentResponses(appts []models.Appointment) []AppointmentResponse {
	resp := make([]AppointmentResponse, len(appts))
	for i := range appts {
		resp[i] = ToAppointmentResponse(&appts[i])
	}
	return resp
}
