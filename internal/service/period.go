package service

import (
	"fmt"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/schedule"
)

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
)

// Period is an inclusive range of calendar days.
type Period struct {
	Kind PeriodKind
	From time.Time
	To   time.Time
}

// ResolvePeriod returns the day, the Monday-to-Sunday week or the calendar
// month that contains anchor.
func ResolvePeriod(kind string, anchor time.Time) (Period, error) {
	day := schedule.Day(anchor)
	switch PeriodKind(kind) {
	case PeriodDay:
		return Period{Kind: PeriodDay, From: day, To: day}, nil
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		from := day.AddDate(0, 0, -offset)
		return Period{Kind: PeriodWeek, From: from, To: from.AddDate(0, 0, 6)}, nil
	case PeriodMonth:
		from := monthStart(day.Year(), day.Month())
		return Period{Kind: PeriodMonth, From: from, To: from.AddDate(0, 1, -1)}, nil
	default:
		return Period{}, fmt.Errorf("%w: %q (want day, week or month)", ErrInvalidPeriod, kind)
	}
}

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
