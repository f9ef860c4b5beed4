// Package domain contains the core data types for the Pocket Guide service:
// trips and their per-day itineraries, the read-only content catalog, and the
// sentinel errors shared by every layer.
// This package has no infrastructure dependencies and is imported by every
// other internal package (repo, service, handler, assets).
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the fixed dd/mm/yyyy format used for trip and day dates,
// both in requests and in the persisted JSON.
const DateLayout = "02/01/2006"

// Trip is a multi-day plan. Days always covers every calendar date from Start
// to End inclusive, exactly once each, in ascending order.
type Trip struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Completed bool      `json:"completed"`
	Days      []Day     `json:"days"`
}

// Day is one calendar date of a trip. The order of Activities is the
// itinerary order and only changes through explicit moves.
type Day struct {
	Date       string         `json:"date"`
	Activities []TripActivity `json:"activities"`
}

// TripActivity is one itinerary entry. It either references a catalog
// activity (Name + City) or is a free-form entry with Custom set.
// Entries have no identity beyond their position within the day.
type TripActivity struct {
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Custom      bool   `json:"isCustom,omitempty"`
}

// Direction is the way MoveActivity shifts an entry within its day.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionUp, DirectionDown:
		return d, nil
	default:
		return "", fmt.Errorf("%w: direction must be \"up\" or \"down\"", ErrValidation)
	}
}

// ParseDate parses dd/mm/yyyy text. Impossible calendar dates such as
// 31/02/2025 are rejected.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must use dd/mm/yyyy", ErrValidation, s)
	}
	return t, nil
}

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MaxTripDays caps the length of a trip. All trips share one persisted
// blob, so an unbounded range would bloat every later write.
const MaxTripDays = 366

// DaysBetween returns one Day per calendar date in [start, end], ascending.
// It returns nil when end is before start.
func DaysBetween(start, end time.Time) []Day {
	cur := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var days []Day
	for !cur.After(last) {
		days = append(days, Day{Date: FormatDate(cur), Activities: []TripActivity{}})
		cur = cur.AddDate(0, 0, 1)
	}
	return days
}

// Clone returns a deep copy so mutations never touch a trip that another
// caller may still hold.
func (t Trip) Clone() Trip {
	out := t
	out.Days = make([]Day, len(t.Days))
	for i, d := range t.Days {
		acts := make([]TripActivity, len(d.Activities))
		copy(acts, d.Activities)
		out.Days[i] = Day{Date: d.Date, Activities: acts}
	}
	return out
}

// Day returns a pointer to the day with the given date, or ErrNotFound.
func (t *Trip) Day(date string) (*Day, error) {
	for i := range t.Days {
		if t.Days[i].Date == date {
			return &t.Days[i], nil
		}
	}
	return nil, fmt.Errorf("day %s: %w", date, ErrNotFound)
}

// AddActivity appends a to the end of the day's itinerary.
func (t *Trip) AddActivity(date string, a TripActivity) error {
	d, err := t.Day(date)
	if err != nil {
		return err
	}
	d.Activities = append(d.Activities, a)
	return nil
}

// RemoveActivity removes the entry at index. An out-of-range index is a no-op.
func (t *Trip) RemoveActivity(date string, index int) error {
	d, err := t.Day(date)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(d.Activities) {
		return nil
	}
	d.Activities = append(d.Activities[:index], d.Activities[index+1:]...)
	return nil
}

// MoveActivity swaps the entry at index with its neighbour in direction dir.
// Moving the first entry up or the last entry down is a no-op.
func (t *Trip) MoveActivity(date string, index int, dir Direction) error {
	d, err := t.Day(date)
	if err != nil {
		return err
	}
	target := index + 1
	if dir == DirectionUp {
		target = index - 1
	}
	n := len(d.Activities)
	if index < 0 || index >= n || target < 0 || target >= n {
		return nil
	}
	d.Activities[index], d.Activities[target] = d.Activities[target], d.Activities[index]
	return nil
}

// RenameActivity overwrites the display name at index. It is meant for custom
// entries but does not refuse catalog references. Out of range is a no-op.
func (t *Trip) RenameActivity(date string, index int, name string) error {
	d, err := t.Day(date)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(d.Activities) {
		return nil
	}
	d.Activities[index].Name = name
	return nil
}
