package repository

import (
	"context"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentFilter struct {
	From   *time.Time
	To     *time.Time
	UserID *uint
}

type AppointmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, appt *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Appointment, error)
	ExistsForSlot(ctx context.Context, tx *gorm.DB, slotID uint) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, appt *models.Appointment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
	List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, tx *gorm.DB, appt *models.Appointment) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(appt).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Service").
		Preload("User").
		First(&appt, id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

// FindByIDForUpdate locks the appointment row only; relations are loaded by
// the caller through their own repositories.
func (r *appointmentRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&appt, id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) ExistsForSlot(ctx context.Context, tx *gorm.DB, slotID uint) (bool, error) {
	var n int64
	err := tx.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("slot_id = ?", slotID).
		Count(&n).Error
	return n > 0, err
}

func (r *appointmentRepository) Update(ctx context.Context, tx *gorm.DB, appt *models.Appointment) error {
	return tx.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appt.ID).
		Updates(map[string]any{
			"slot_id":      appt.SlotID,
			"service_id":   appt.ServiceID,
			"client_phone": appt.ClientPhone,
			"price":        appt.Price,
			"updated_at":   time.Now(),
		}).Error
}

func (r *appointmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	res := tx.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *appointmentRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	res := tx.WithContext(ctx).Where("1 = 1").Delete(&models.Appointment{})
	return res.RowsAffected, res.Error
}

func (r *appointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	var appts []models.Appointment
	q := r.db.WithContext(ctx).
		Joins("Slot").
		Preload("Service")
	if filter.From != nil {
		q = q.Where(`"Slot"."date" >= ?`, *filter.From)
	}
	if filter.To != nil {
		q = q.Where(`"Slot"."date" <= ?`, *filter.To)
	}
	if filter.UserID != nil {
		q = q.Where("appointments.user_id = ?", *filter.UserID)
	}
	if err := q.Order(`"Slot"."date" ASC, "Slot"."time_of_day" ASC`).Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}
