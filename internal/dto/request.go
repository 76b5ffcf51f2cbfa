package dto

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type ReserveRequest struct {
	Phone      string `json:"phone" validate:"required,max=30"`
	ServiceID  uint   `json:"service_id" validate:"required,gt=0"`
	SlotID     uint   `json:"slot_id" validate:"required,gt=0"`
	ClientName string `json:"client_name" validate:"omitempty,max=100"`
}

// EditAppointmentRequest: absent fields are left unchanged.
type EditAppointmentRequest struct {
	SlotID    *uint    `json:"slot_id" validate:"omitempty,gt=0"`
	ServiceID *uint    `json:"service_id" validate:"omitempty,gt=0"`
	Phone     *string  `json:"phone" validate:"omitempty,max=30"`
	Price     *float64 `json:"price"`
}

type RebuildRequest struct {
	Confirm string `json:"confirm"`
}

type CreateServiceRequest struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Price float64 `json:"price" validate:"gte=0"`
}

type UpdateServiceRequest struct {
	Name   *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
	Active *bool    `json:"active"`
}
