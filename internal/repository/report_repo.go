package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Totals struct {
	Total        float64
	Appointments int64
}

type ServiceTotal struct {
	Service      string
	Total        float64
	Appointments int64
}

type DayTotal struct {
	Date         time.Time
	Total        float64
	Appointments int64
}

type LineItem struct {
	AppointmentID uint
	Client        string
	Service       string
	Price         float64
	Time          string
}

// ReportRepository aggregates price snapshots of booked appointments by the
// date of the slot they occupy. Date bounds are inclusive.
type ReportRepository interface {
	Totals(ctx context.Context, from, to time.Time) (Totals, error)
	TotalsByService(ctx context.Context, from, to time.Time) ([]ServiceTotal, error)
	TotalsByDay(ctx context.Context, from, to time.Time) ([]DayTotal, error)
	LineItems(ctx context.Context, day time.Time, service string) ([]LineItem, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) booked(ctx context.Context, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("appointments").
		Joins("JOIN slots ON slots.id = appointments.slot_id").
		Where("slots.date BETWEEN ? AND ?", from, to)
}

func (r *reportRepository) Totals(ctx context.Context, from, to time.Time) (Totals, error) {
	var t Totals
	err := r.booked(ctx, from, to).
		Select("COALESCE(SUM(appointments.price), 0) AS total, COUNT(appointments.id) AS appointments").
		Scan(&t).Error
	return t, err
}

func (r *reportRepository) TotalsByService(ctx context.Context, from, to time.Time) ([]ServiceTotal, error) {
	var rows []ServiceTotal
	err := r.booked(ctx, from, to).
		Joins("JOIN services ON services.id = appointments.service_id").
		Select("services.name AS service, COALESCE(SUM(appointments.price), 0) AS total, COUNT(appointments.id) AS appointments").
		Group("services.name").
		Order("services.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) TotalsByDay(ctx context.Context, from, to time.Time) ([]DayTotal, error) {
	var rows []DayTotal
	err := r.booked(ctx, from, to).
		Select("slots.date AS date, COALESCE(SUM(appointments.price), 0) AS total, COUNT(appointments.id) AS appointments").
		Group("slots.date").
		Order("slots.date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) LineItems(ctx context.Context, day time.Time, service string) ([]LineItem, error) {
	var rows []LineItem
	q := r.booked(ctx, day, day).
		Joins("JOIN services ON services.id = appointments.service_id").
		Select("appointments.id AS appointment_id, appointments.client_name AS client, services.name AS service, appointments.price AS price, slots.time_of_day AS time")
	if service != "" {
		q = q.Where("services.name = ?", service)
	}
	err := q.Order("slots.time_of_day ASC").Scan(&rows).Error
	return rows, err
}
