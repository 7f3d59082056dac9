package entities

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSlotHorizonDays = 14
	DefaultSlotMinutes     = 60
	clockLayout            = "15:04"
)

var ErrInvalidAvailability = errors.New("invalid availability window")

// TutorAvailability is a recurring weekly window in the tutor's timezone
type TutorAvailability struct {
	ID        uuid.UUID    `json:"id"`
	TutorID   uuid.UUID    `json:"tutorId"`
	Weekday   time.Weekday `json:"weekday"`
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	Timezone  string       `json:"timezone"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Validate checks weekday range, clock format and ordering
func (a *TutorAvailability) Validate() error {
	if a.Weekday < time.Sunday || a.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d", ErrInvalidAvailability, a.Weekday)
	}
	start, err := time.Parse(clockLayout, a.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidAvailability, a.StartTime)
	}
	end, err := time.Parse(clockLayout, a.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidAvailability, a.EndTime)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidAvailability)
	}
	if _, err := loadLocation(a.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q", ErrInvalidAvailability, a.Timezone)
	}
	return nil
}

// AvailabilityWindowInput is one window in PUT /tutors/me/availability
type AvailabilityWindowInput struct {
	Weekday   int    `json:"weekday" binding:"gte=0,lte=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Timezone  string `json:"timezone"`
}

// SetAvailabilityInput replaces the tutor's weekly schedule
type SetAvailabilityInput struct {
	Windows []AvailabilityWindowInput `json:"windows" binding:"dive"`
}

// Slot is one bookable interval expressed in the viewer's timezone
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GenerateSlots walks `days` calendar days from `from` and cuts every matching weekly
// window into slotMinutes pieces. Slots starting before `from` are skipped and the
// result is sorted ascending in viewer's timezone.
func GenerateSlots(windows []*TutorAvailability, from time.Time, days, slotMinutes int, viewer *time.Location) ([]Slot, error) {
	if days <= 0 {
		days = DefaultSlotHorizonDays
	}
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	if viewer == nil {
		viewer = time.UTC
	}
	step := time.Duration(slotMinutes) * time.Minute

	seen := make(map[int64]bool)
	slots := make([]Slot, 0)
	for _, w := range windows {
		loc, err := loadLocation(w.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q", ErrInvalidAvailability, w.Timezone)
		}
		startClock, err := time.Parse(clockLayout, w.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: start %q", ErrInvalidAvailability, w.StartTime)
		}
		endClock, err := time.Parse(clockLayout, w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: end %q", ErrInvalidAvailability, w.EndTime)
		}

		local := from.In(loc)
		for d := 0; d < days; d++ {
			day := time.Date(local.Year(), local.Month(), local.Day()+d, 0, 0, 0, 0, loc)
			if day.Weekday() != w.Weekday {
				continue
			}
			start := time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, loc)
			end := time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, loc)
			for t := start; !t.Add(step).After(end); t = t.Add(step) {
				if t.Before(from) || seen[t.Unix()] {
					continue
				}
				seen[t.Unix()] = true
				slots = append(slots, Slot{Start: t.In(viewer), End: t.Add(step).In(viewer)})
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
