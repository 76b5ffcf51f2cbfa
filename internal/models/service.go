package models

import "time"

// Service is a bookable offering. Services are deactivated, never deleted,
// so historical appointments keep their reference.
type Service struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Price     float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
