package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/notification"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
	"gorm.io/gorm"
)

// EditInput fields left nil are not changed.
type EditInput struct {
	SlotID    *uint
	ServiceID *uint
	Phone     *string
	Price     *float64
}

type EditResult struct {
	Appointment  *models.Appointment
	Notification notification.Outcome
}

type CancelResult struct {
	AppointmentID uint
	SlotID        uint
	Notification  notification.Outcome
}

type AppointmentService interface {
	Edit(ctx context.Context, id uint, in EditInput) (*EditResult, error)
	Cancel(ctx context.Context, id uint) (*CancelResult, error)
	ToggleSlot(ctx context.Context, slotID uint) (*models.Slot, error)
	List(ctx context.Context, from, to *time.Time) ([]models.Appointment, error)
	ListMine(ctx context.Context, userID uint) ([]models.Appointment, error)
}

type appointmentService struct {
	uow         repository.UnitOfWork
	slotRepo    repository.SlotRepository
	apptRepo    repository.AppointmentRepository
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	opts        EngineOptions
}

func NewAppointmentService(
	uow repository.UnitOfWork,
	slotRepo repository.SlotRepository,
	apptRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	opts EngineOptions,
) AppointmentService {
	return &appointmentService{
		uow:         uow,
		slotRepo:    slotRepo,
		apptRepo:    apptRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		opts:        opts.withDefaults("appointments"),
	}
}

func (s *appointmentService) Edit(ctx context.Context, id uint, in EditInput) (*EditResult, error) {
	if in.Price != nil && *in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	var phone string
	if in.Phone != nil {
		phone = strings.TrimSpace(*in.Phone)
		if phone == "" {
			return nil, fmt.Errorf("%w: phone must not be empty", ErrInvalidInput)
		}
	}

	var (
		appt             *models.Appointment
		oldSlot, newSlot *models.Slot
		oldSvc, newSvc   *models.Service
		recipient        string
	)

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error

		appt, err = s.apptRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("lock appointment: %w", err)
		}
		requested := appt.SlotID
		if in.SlotID != nil {
			requested = *in.SlotID
		}
		if oldSlot, newSlot, err = s.lockSlotPair(ctx, tx, appt.SlotID, requested); err != nil {
			return err
		}
		if oldSvc, err = s.serviceRepo.FindByID(ctx, tx, appt.ServiceID); err != nil {
			return fmt.Errorf("find current service: %w", err)
		}
		newSvc = oldSvc

		// Validate everything before the first write.
		if newSlot.ID != oldSlot.ID && !newSlot.Available {
			return ErrSlotUnavailable
		}
		price := appt.Price
		if in.ServiceID != nil {
			newSvc, err = s.serviceRepo.FindByID(ctx, tx, *in.ServiceID)
			if err != nil {
				if repository.IsNotFound(err) {
					return ErrInvalidService
				}
				return fmt.Errorf("find service: %w", err)
			}
			if !newSvc.Active {
				return ErrInvalidService
			}
			price = newSvc.Price
		}
		if in.Price != nil {
			price = *in.Price
		}

		if newSlot.ID != oldSlot.ID {
			if err := s.slotRepo.SetAvailable(ctx, tx, oldSlot.ID, true); err != nil {
				return fmt.Errorf("release slot: %w", err)
			}
			if err := s.slotRepo.SetAvailable(ctx, tx, newSlot.ID, false); err != nil {
				return fmt.Errorf("book slot: %w", err)
			}
			oldSlot.Available = true
			newSlot.Available = false
		}
		appt.SlotID = newSlot.ID
		appt.ServiceID = newSvc.ID
		appt.Price = price
		if in.Phone != nil {
			appt.ClientPhone = phone
		}
		if err := s.apptRepo.Update(ctx, tx, appt); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("update appointment: %w", err)
		}

		recipient, err = s.recipient(ctx, tx, appt)
		return err
	})
	if repository.IsLockConflict(err) {
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, err
	}

	appt.Slot = newSlot
	appt.Service = newSvc
	s.opts.Logger.Info("appointment edited",
		"appointment_id", appt.ID, "old_slot_id", oldSlot.ID, "slot_id", newSlot.ID, "price", appt.Price)

	msg := slotMessage(notification.KindEdit, recipient, appt.ClientName, newSlot, newSvc)
	msg.PreviousDate = oldSlot.DateString()
	msg.PreviousTime = oldSlot.TimeOfDay
	msg.PreviousService = oldSvc.Name
	return &EditResult{Appointment: appt, Notification: s.opts.notify(ctx, msg)}, nil
}

// lockSlotPair locks the appointment's slot and the requested one in
// ascending id order, so crossed edits queue instead of deadlocking.
func (s *appointmentService) lockSlotPair(ctx context.Context, tx *gorm.DB, current, requested uint) (*models.Slot, *models.Slot, error) {
	ids := []uint{current, requested}
	if requested < current {
		ids[0], ids[1] = requested, current
	}
	locked := make(map[uint]*models.Slot, 2)
	for _, id := range ids {
		if _, ok := locked[id]; ok {
			continue
		}
		slot, err := s.slotRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if id != current && repository.IsNotFound(err) {
				return nil, nil, ErrSlotUnavailable
			}
			return nil, nil, fmt.Errorf("lock slot %d: %w", id, err)
		}
		locked[id] = slot
	}
	return locked[current], locked[requested], nil
}

func (s *appointmentService) Cancel(ctx context.Context, id uint) (*CancelResult, error) {
	var (
		appt      *models.Appointment
		slot      *models.Slot
		svc       *models.Service
		recipient string
	)

	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		appt, err = s.apptRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("lock appointment: %w", err)
		}
		if slot, err = s.slotRepo.FindByIDForUpdate(ctx, tx, appt.SlotID); err != nil {
			return fmt.Errorf("lock slot: %w", err)
		}
		if svc, err = s.serviceRepo.FindByID(ctx, tx, appt.ServiceID); err != nil {
			return fmt.Errorf("find service: %w", err)
		}
		if recipient, err = s.recipient(ctx, tx, appt); err != nil {
			return err
		}

		if err := s.slotRepo.SetAvailable(ctx, tx, slot.ID, true); err != nil {
			return fmt.Errorf("release slot: %w", err)
		}
		if err := s.apptRepo.Delete(ctx, tx, appt.ID); err != nil {
			return fmt.Errorf("delete appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.Logger.Info("appointment cancelled", "appointment_id", appt.ID, "slot_id", slot.ID)

	msg := slotMessage(notification.KindCancellation, recipient, appt.ClientName, slot, svc)
	return &CancelResult{
		AppointmentID: appt.ID,
		SlotID:        slot.ID,
		Notification:  s.opts.notify(ctx, msg),
	}, nil
}

func (s *appointmentService) ToggleSlot(ctx context.Context, slotID uint) (*models.Slot, error) {
	var slot *models.Slot
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		slot, err = s.slotRepo.FindByIDForUpdate(ctx, tx, slotID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("lock slot: %w", err)
		}
		booked, err := s.apptRepo.ExistsForSlot(ctx, tx, slot.ID)
		if err != nil {
			return fmt.Errorf("check slot appointments: %w", err)
		}
		if booked {
			return ErrSlotHasAppointment
		}
		if err := s.slotRepo.SetAvailable(ctx, tx, slot.ID, !slot.Available); err != nil {
			return fmt.Errorf("toggle slot: %w", err)
		}
		slot.Available = !slot.Available
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.opts.Logger.Info("slot toggled", "slot_id", slot.ID, "available", slot.Available)
	return slot, nil
}

func (s *appointmentService) List(ctx context.Context, from, to *time.Time) ([]models.Appointment, error) {
	appts, err := s.apptRepo.List(ctx, repository.AppointmentFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (s *appointmentService) ListMine(ctx context.Context, userID uint) ([]models.Appointment, error) {
	appts, err := s.apptRepo.List(ctx, repository.AppointmentFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// recipient resolves the email of the account that booked appt. Appointments
// whose account is gone have no recipient.
func (s *appointmentService) recipient(ctx context.Context, tx *gorm.DB, appt *models.Appointment) (string, error) {
	if appt.UserID == nil {
		return "", nil
	}
	user, err := s.userRepo.FindByID(ctx, tx, *appt.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	return user.Email, nil
}
