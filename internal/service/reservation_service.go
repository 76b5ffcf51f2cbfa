package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/notification"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
	"gorm.io/gorm"
)

type ReserveInput struct {
	UserID     uint
	ClientName string
	Phone      string
	ServiceID  uint
	SlotID     uint
}

type ReserveResult struct {
	Appointment  *models.Appointment
	Notification notification.Outcome
}

type ReservationService interface {
	Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error)
}

type reservationService struct {
	uow         repository.UnitOfWork
	slotRepo    repository.SlotRepository
	apptRepo    repository.AppointmentRepository
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	opts        EngineOptions
}

func NewReservationService(
	uow repository.UnitOfWork,
	slotRepo repository.SlotRepository,
	apptRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	opts EngineOptions,
) ReservationService {
	return &reservationService{
		uow:         uow,
		slotRepo:    slotRepo,
		apptRepo:    apptRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		opts:        opts.withDefaults("reservation"),
	}
}

func (s *reservationService) Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error) {
	phone := strings.TrimSpace(in.Phone)

	var (
		appt *models.Appointment
		user *models.User
		slot *models.Slot
		svc  *models.Service
	)

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error

		// 1. The token may outlive the account.
		user, err = s.userRepo.FindByID(ctx, tx, in.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrUnauthenticated
			}
			return fmt.Errorf("find user: %w", err)
		}

		// 2. Lock the slot: concurrent reservations of it queue here.
		slot, err = s.slotRepo.FindByIDForUpdate(ctx, tx, in.SlotID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("lock slot: %w", err)
		}
		if !slot.Available {
			return ErrSlotUnavailable
		}

		// 3. Slot start is read in the shop's time zone.
		start, err := slot.StartsAt(s.opts.Location)
		if err != nil {
			return err
		}
		if start.Before(s.opts.Now()) {
			return ErrPastSlot
		}

		// 4. Service
		svc, err = s.serviceRepo.FindByID(ctx, tx, in.ServiceID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrInvalidService
			}
			return fmt.Errorf("find service: %w", err)
		}
		if !svc.Active {
			return ErrInvalidService
		}
		if phone == "" {
			return fmt.Errorf("%w: phone is required", ErrInvalidInput)
		}

		name := strings.TrimSpace(in.ClientName)
		if name == "" {
			name = user.Name
		}
		userID := user.ID
		appt = &models.Appointment{
			ClientName:  name,
			ClientPhone: phone,
			SlotID:      slot.ID,
			UserID:      &userID,
			ServiceID:   svc.ID,
			Price:       svc.Price,
		}
		if err := s.apptRepo.Create(ctx, tx, appt); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		if err := s.slotRepo.SetAvailable(ctx, tx, slot.ID, false); err != nil {
			return fmt.Errorf("mark slot booked: %w", err)
		}
		return nil
	})
	if repository.IsLockConflict(err) {
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, err
	}

	slot.Available = false
	appt.Slot = slot
	appt.Service = svc

	s.opts.Logger.Info("appointment reserved",
		"appointment_id", appt.ID, "slot_id", slot.ID, "user_id", user.ID, "price", appt.Price)

	outcome := s.opts.notify(ctx, slotMessage(notification.KindConfirmation, user.Email, appt.ClientName, slot, svc))
	return &ReserveResult{Appointment: appt, Notification: outcome}, nil
}
