package service

import "errors"

// not found
var (
	ErrSlotNotFound        = errors.New("slot not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrUserNotFound        = errors.New("user not found")
)

// conflict
var (
	ErrSlotUnavailable    = errors.New("slot is not available")
	ErrSlotHasAppointment = errors.New("slot has an appointment")
	ErrEmailTaken         = errors.New("email already registered")
	ErrServiceNameTaken   = errors.New("a service with that name already exists")
)

// invalid input
var (
	ErrInvalidService      = errors.New("service does not exist or is inactive")
	ErrPastSlot            = errors.New("cannot book a slot in the past")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidPeriod       = errors.New("invalid report period")
	ErrInvalidSchedule     = errors.New("invalid schedule")
	ErrRebuildNotConfirmed = errors.New(`calendar rebuild requires confirm "REBUILD"`)
)

// unauthorized
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("admin access required")
	ErrRebuildDisabled    = errors.New("calendar rebuild is disabled in this environment")
)
