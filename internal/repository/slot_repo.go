package repository

import (
	"context"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const slotBatchSize = 500

type SlotFilter struct {
	From          *time.Time
	To            *time.Time
	OnlyAvailable bool
}

type SlotRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Slot, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Slot, error)
	SetAvailable(ctx context.Context, tx *gorm.DB, id uint, available bool) error
	List(ctx context.Context, filter SlotFilter) ([]models.Slot, error)
	InsertMissing(ctx context.Context, tx *gorm.DB, slots []models.Slot) (int64, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) FindByID(ctx context.Context, id uint) (*models.Slot, error) {
	var slot models.Slot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// FindByIDForUpdate locks the slot row until tx ends, serialising concurrent
// reservations and edits that target the same slot.
func (r *slotRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Slot, error) {
	var slot models.Slot
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) SetAvailable(ctx context.Context, tx *gorm.DB, id uint, available bool) error {
	res := tx.WithContext(ctx).
		Model(&models.Slot{}).
		Where("id = ?", id).
		Update("available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *slotRepository) List(ctx context.Context, filter SlotFilter) ([]models.Slot, error) {
	var slots []models.Slot
	q := r.db.WithContext(ctx).Model(&models.Slot{})
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if filter.OnlyAvailable {
		q = q.Where("available = ?", true)
	}
	if err := q.Order("date ASC, time_of_day ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// InsertMissing inserts the slots whose (date, time) pair does not exist yet
// and returns how many rows were actually created.
func (r *slotRepository) InsertMissing(ctx context.Context, tx *gorm.DB, slots []models.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	var created int64
	for start := 0; start < len(slots); start += slotBatchSize {
		end := min(start+slotBatchSize, len(slots))
		batch := slots[start:end]
		res := tx.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}, {Name: "time_of_day"}},
				DoNothing: true,
			}).
			Create(&batch)
		if res.Error != nil {
			return created, res.Error
		}
		created += res.RowsAffected
	}
	return created, nil
}

func (r *slotRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	res := tx.WithContext(ctx).Where("1 = 1").Delete(&models.Slot{})
	return res.RowsAffected, res.Error
}

func (r *slotRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Slot{}).Count(&n).Error
	return n, err
}
