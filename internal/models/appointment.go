package models

import "time"

type Appointment struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:30;not null" json:"client_phone"`
	SlotID      uint   `gorm:"not null;uniqueIndex:uq_appointment_slot" json:"slot_id"`
	UserID      *uint  `gorm:"index" json:"user_id,omitempty"`
	ServiceID   uint   `gorm:"not null;index" json:"service_id"`
	// Price is frozen at booking or edit time; reports read it, never Service.Price.
	Price     float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Slot    *Slot    `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE" json:"slot,omitempty"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Service *Service `gorm:"foreignKey:ServiceID;constraint:OnDelete:RESTRICT" json:"service,omitempty"`
}
