package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
	"github.com/faroemiliano/backBarberia1991/internal/schedule"
	"gorm.io/gorm"
)

const RebuildConfirmation = "REBUILD"

type CalendarService interface {
	// Generate inserts the missing slots from today through the horizon and
	// returns how many were created.
	Generate(ctx context.Context) (int64, error)
	// Rebuild wipes every appointment and slot, then regenerates.
	Rebuild(ctx context.Context, confirm string) (int64, error)
	ListAvailable(ctx context.Context, from, to *time.Time) ([]models.Slot, error)
	ListAll(ctx context.Context, from, to *time.Time) ([]models.Slot, error)
}

type CalendarOptions struct {
	Schedule     schedule.Config
	Location     *time.Location
	AllowRebuild bool
	Now          func() time.Time
	Logger       *slog.Logger
}

type calendarService struct {
	uow      repository.UnitOfWork
	slotRepo repository.SlotRepository
	apptRepo repository.AppointmentRepository
	opts     CalendarOptions
	logger   *slog.Logger
}

func NewCalendarService(uow repository.UnitOfWork, slotRepo repository.SlotRepository, apptRepo repository.AppointmentRepository, opts CalendarOptions) CalendarService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &calendarService{
		uow:      uow,
		slotRepo: slotRepo,
		apptRepo: apptRepo,
		opts:     opts,
		logger:   logger.With("component", "calendar"),
	}
}

func (s *calendarService) window() (time.Time, time.Time, error) {
	if err := s.opts.Schedule.Validate(); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	from := schedule.Day(s.opts.Now().In(s.opts.Location))
	return from, s.opts.Schedule.Until(from), nil
}

func (s *calendarService) Generate(ctx context.Context) (int64, error) {
	from, to, err := s.window()
	if err != nil {
		return 0, err
	}
	slots := s.opts.Schedule.Expand(from, to)

	var created int64
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		n, err := s.slotRepo.InsertMissing(ctx, tx, slots)
		if err != nil {
			return fmt.Errorf("insert slots: %w", err)
		}
		created = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("calendar generated",
		"from", from.Format(models.DateLayout), "to", to.Format(models.DateLayout),
		"candidates", len(slots), "created", created)
	return created, nil
}

func (s *calendarService) Rebuild(ctx context.Context, confirm string) (int64, error) {
	if !s.opts.AllowRebuild {
		return 0, ErrRebuildDisabled
	}
	if confirm != RebuildConfirmation {
		return 0, ErrRebuildNotConfirmed
	}
	from, to, err := s.window()
	if err != nil {
		return 0, err
	}
	slots := s.opts.Schedule.Expand(from, to)

	var created, removedAppts, removedSlots int64
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		if removedAppts, err = s.apptRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("delete appointments: %w", err)
		}
		if removedSlots, err = s.slotRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("delete slots: %w", err)
		}
		if created, err = s.slotRepo.InsertMissing(ctx, tx, slots); err != nil {
			return fmt.Errorf("insert slots: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Warn("calendar rebuilt",
		"removed_appointments", removedAppts, "removed_slots", removedSlots, "created", created)
	return created, nil
}

// ListAvailable returns open slots that have not started yet.
func (s *calendarService) ListAvailable(ctx context.Context, from, to *time.Time) ([]models.Slot, error) {
	now := s.opts.Now().In(s.opts.Location)
	today := schedule.Day(now)
	if from == nil || from.Before(today) {
		from = &today
	}
	slots, err := s.slotRepo.List(ctx, repository.SlotFilter{From: from, To: to, OnlyAvailable: true})
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	out := slots[:0]
	for _, slot := range slots {
		start, err := slot.StartsAt(s.opts.Location)
		if err != nil {
			return nil, err
		}
		if !start.Before(now) {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *calendarService) ListAll(ctx context.Context, from, to *time.Time) ([]models.Slot, error) {
	slots, err := s.slotRepo.List(ctx, repository.SlotFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}
