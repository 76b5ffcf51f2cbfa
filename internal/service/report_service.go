package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
)

type RevenueReport struct {
	Period       PeriodKind `json:"period"`
	From         string     `json:"from"`
	To           string     `json:"to"`
	Total        float64    `json:"total"`
	Appointments int64      `json:"appointments"`
}

type ServiceRevenue struct {
	Service      string  `json:"service"`
	Total        float64 `json:"total"`
	Appointments int64   `json:"appointments"`
}

type ServiceBreakdown struct {
	RevenueReport
	Services []ServiceRevenue `json:"services"`
}

type DetailLine struct {
	AppointmentID uint    `json:"appointment_id"`
	Client        string  `json:"client"`
	Service       string  `json:"service"`
	Price         float64 `json:"price"`
	Time          string  `json:"time"`
}

type DayAttendance struct {
	Date         string  `json:"date"`
	Appointments int64   `json:"appointments"`
	Revenue      float64 `json:"revenue"`
}

type MonthAttendance struct {
	Month        int     `json:"month"`
	Appointments int64   `json:"appointments"`
	Revenue      float64 `json:"revenue"`
}

type ReportService interface {
	Revenue(ctx context.Context, kind string, anchor time.Time) (*RevenueReport, error)
	RevenueByService(ctx context.Context, kind string, anchor time.Time) (*ServiceBreakdown, error)
	Detail(ctx context.Context, date time.Time, service string) ([]DetailLine, error)
	DailyAttendance(ctx context.Context, year int, month time.Month) ([]DayAttendance, error)
	MonthlyAttendance(ctx context.Context, year int) ([]MonthAttendance, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	serviceRepo repository.ServiceRepository
}

func NewReportService(reportRepo repository.ReportRepository, serviceRepo repository.ServiceRepository) ReportService {
	return &reportService{reportRepo: reportRepo, serviceRepo: serviceRepo}
}

func (s *reportService) Revenue(ctx context.Context, kind string, anchor time.Time) (*RevenueReport, error) {
	p, err := ResolvePeriod(kind, anchor)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.Totals(ctx, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("revenue totals: %w", err)
	}
	return &RevenueReport{
		Period:       p.Kind,
		From:         p.From.Format(models.DateLayout),
		To:           p.To.Format(models.DateLayout),
		Total:        totals.Total,
		Appointments: totals.Appointments,
	}, nil
}

// RevenueByService lists every catalog service, booked or not.
func (s *reportService) RevenueByService(ctx context.Context, kind string, anchor time.Time) (*ServiceBreakdown, error) {
	p, err := ResolvePeriod(kind, anchor)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.TotalsByService(ctx, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("revenue by service: %w", err)
	}
	catalog, err := s.serviceRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	byName := make(map[string]*ServiceRevenue, len(catalog))
	out := &ServiceBreakdown{
		RevenueReport: RevenueReport{
			Period: p.Kind,
			From:   p.From.Format(models.DateLayout),
			To:     p.To.Format(models.DateLayout),
		},
		Services: make([]ServiceRevenue, 0, len(catalog)),
	}
	for _, svc := range catalog {
		if _, ok := byName[svc.Name]; !ok {
			byName[svc.Name] = &ServiceRevenue{Service: svc.Name}
		}
	}
	for _, r := range rows {
		sr, ok := byName[r.Service]
		if !ok {
			sr = &ServiceRevenue{Service: r.Service}
			byName[r.Service] = sr
		}
		sr.Total += r.Total
		sr.Appointments += r.Appointments
	}
	for _, sr := range byName {
		out.Services = append(out.Services, *sr)
		out.Total += sr.Total
		out.Appointments += sr.Appointments
	}
	sort.Slice(out.Services, func(i, j int) bool {
		return out.Services[i].Service < out.Services[j].Service
	})
	return out, nil
}

func (s *reportService) Detail(ctx context.Context, date time.Time, service string) ([]DetailLine, error) {
	items, err := s.reportRepo.LineItems(ctx, date, strings.TrimSpace(service))
	if err != nil {
		return nil, fmt.Errorf("revenue detail: %w", err)
	}
	lines := make([]DetailLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, DetailLine{
			AppointmentID: it.AppointmentID,
			Client:        it.Client,
			Service:       it.Service,
			Price:         it.Price,
			Time:          strings.TrimSpace(it.Time),
		})
	}
	return lines, nil
}

func (s *reportService) DailyAttendance(ctx context.Context, year int, month time.Month) ([]DayAttendance, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, fmt.Errorf("%w: bad month %d-%02d", ErrInvalidPeriod, year, month)
	}
	from := monthStart(year, month)
	to := from.AddDate(0, 1, -1)

	rows, err := s.reportRepo.TotalsByDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily attendance: %w", err)
	}
	byDay := make(map[string]repository.DayTotal, len(rows))
	for _, r := range rows {
		byDay[r.Date.Format(models.DateLayout)] = r
	}

	out := make([]DayAttendance, 0, to.Day())
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateLayout)
		r := byDay[key]
		out = append(out, DayAttendance{Date: key, Appointments: r.Appointments, Revenue: r.Total})
	}
	return out, nil
}

func (s *reportService) MonthlyAttendance(ctx context.Context, year int) ([]MonthAttendance, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: bad year %d", ErrInvalidPeriod, year)
	}
	from := monthStart(year, time.January)
	to := monthStart(year, time.December).AddDate(0, 1, -1)

	rows, err := s.reportRepo.TotalsByDay(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly attendance: %w", err)
	}

	out := make([]MonthAttendance, 12)
	for i := range out {
		out[i].Month = i + 1
	}
	for _, r := range rows {
		m := &out[r.Date.Month()-1]
		m.Appointments += r.Appointments
		m.Revenue += r.Total
	}
	return out, nil
}
