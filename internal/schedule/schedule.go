// Package schedule describes the barbershop's weekly opening pattern and
// expands it into concrete calendar slots.
package schedule

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid schedule")

// Range is a half-open opening window [Start, End) in HH:MM.
type Range struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

type Config struct {
	IntervalMinutes int `yaml:"interval_minutes" json:"interval_minutes"`
	// HorizonDays overrides the generation window. Zero means one calendar
	// year from the anchor day.
	HorizonDays int                `yaml:"horizon_days" json:"horizon_days"`
	Days        map[string][]Range `yaml:"days" json:"days"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Default is the shop's regular week: closed Sunday and Monday, longer
// mornings on Friday and Saturday, a lunch break every day.
func Default() Config {
	weekday := []Range{{Start: "11:00", End: "14:00"}, {Start: "15:00", End: "20:00"}}
	weekend := []Range{{Start: "10:00", End: "14:00"}, {Start: "15:00", End: "20:00"}}
	return Config{
		IntervalMinutes: 30,
		Days: map[string][]Range{
			"tuesday":   weekday,
			"wednesday": weekday,
			"thursday":  weekday,
			"friday":    weekend,
			"saturday":  weekend,
		},
	}
}

// LoadFile reads a YAML schedule. An empty path returns Default.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read schedule file: %w", err)
	}
	cfg := Default()
	cfg.Days = nil
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse schedule file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalid)
	}
	if c.HorizonDays < 0 {
		return fmt.Errorf("%w: horizon must not be negative", ErrInvalid)
	}
	for day, ranges := range c.Days {
		if _, ok := weekdays[strings.ToLower(day)]; !ok {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalid, day)
		}
		for _, r := range ranges {
			start, err := parseClock(r.Start)
			if err != nil {
				return err
			}
			end, err := parseClock(r.End)
			if err != nil {
				return err
			}
			if start >= end {
				return fmt.Errorf("%w: %s range %s-%s is empty", ErrInvalid, day, r.Start, r.End)
			}
		}
	}
	return nil
}

// Until returns the exclusive end of the generation window starting at from.
func (c Config) Until(from time.Time) time.Time {
	from = Day(from)
	if c.HorizonDays > 0 {
		return from.AddDate(0, 0, c.HorizonDays)
	}
	return from.AddDate(1, 0, 0)
}

// TimesFor returns the sorted, de-duplicated slot times for a weekday.
func (c Config) TimesFor(wd time.Weekday) []string {
	seen := make(map[int]struct{})
	for day, ranges := range c.Days {
		if weekdays[strings.ToLower(day)] != wd {
			continue
		}
		for _, r := range ranges {
			start, err := parseClock(r.Start)
			if err != nil {
				continue
			}
			end, err := parseClock(r.End)
			if err != nil {
				continue
			}
			for m := start; m < end; m += c.IntervalMinutes {
				seen[m] = struct{}{}
			}
		}
	}
	minutes := make([]int, 0, len(seen))
	for m := range seen {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)
	out := make([]string, len(minutes))
	for i, m := range minutes {
		out[i] = fmt.Sprintf("%02d:%02d", m/60, m%60)
	}
	return out
}

// Expand builds one available slot per opening time for every day in
// [from, to). Dates are normalised to UTC midnight.
func (c Config) Expand(from, to time.Time) []models.Slot {
	var slots []models.Slot
	byWeekday := make(map[time.Weekday][]string, 7)
	end := Day(to)
	for d := Day(from); d.Before(end); d = d.AddDate(0, 0, 1) {
		times, ok := byWeekday[d.Weekday()]
		if !ok {
			times = c.TimesFor(d.Weekday())
			byWeekday[d.Weekday()] = times
		}
		for _, t := range times {
			slots = append(slots, models.Slot{Date: d, TimeOfDay: t, Available: true})
		}
	}
	return slots
}

// Day truncates t to its calendar date, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse(models.TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalid, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
