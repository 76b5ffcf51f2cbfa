package models

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Slot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uq_slot_date_time,priority:1;index:ix_slot_date_available,priority:1" json:"date"`
	TimeOfDay string    `gorm:"type:char(5);not null;uniqueIndex:uq_slot_date_time,priority:2" json:"time"`
	Available bool      `gorm:"not null;default:true;index:ix_slot_date_available,priority:2" json:"available"`
}

// StartsAt combines the slot's calendar day and time of day in loc.
func (s *Slot) StartsAt(loc *time.Location) (time.Time, error) {
	tod, err := time.Parse(TimeLayout, s.TimeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("slot %d: bad time of day %q: %w", s.ID, s.TimeOfDay, err)
	}
	y, m, d := s.Date.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

func (s *Slot) DateString() string {
	return s.Date.Format(DateLayout)
}
