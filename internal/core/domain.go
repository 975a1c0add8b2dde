package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	Monthly  BillType = "monthly"
	Weekly   BillType = "weekly"
	BiWeekly BillType = "bi-weekly"
)

// PaycheckMarker prefixes the display name of paycheck occurrences.
const PaycheckMarker = "💰 "

type (
	BillType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Bill is one recurring bill or paycheck definition. The meaning of Day
	// depends on Type: day-of-month for monthly, day-of-week (0=Sunday) for
	// weekly. LastDate is the bi-weekly anchor; a zero LastDate suppresses
	// bi-weekly expansion for the entry.
	Bill struct {
		Name     string   `json:"name"`
		Type     BillType `json:"type"`
		Amount   Money    `json:"amount"`
		Day      int      `json:"day"`
		LastDate Date     `json:"lastDate"`
	}

	// Window is the inclusive [Start, End] day range a query expands over.
	// Both bounds are truncated to midnight.
	Window struct {
		Start time.Time
		End   time.Time
	}

	// Occurrence is one concrete dated instance of a bill inside a query
	// window. Occurrences are recomputed on every query and never stored.
	Occurrence struct {
		Date       Date   `json:"date"`
		Name       string `json:"name"`
		Amount     Money  `json:"amount"`
		OffsetDays int    `json:"offsetDays"`
		IsPaycheck bool   `json:"isPaycheck"`
	}

	// Schedule is the ordered occurrence list plus the total needed for all
	// non-paycheck occurrences.
	Schedule struct {
		Occurrences []Occurrence `json:"occurrences"`
		TotalNeeded Money        `json:"-"`
		TotalLabel  string       `json:"totalNeeded"`
	}
)

var (
	ErrInvalidDay     = errors.New("invalid day")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidType    = errors.New("invalid bill type")
	ErrEmptyName      = errors.New("empty bill name")
	ErrInvalidUpload  = errors.New("invalid upload payload")
	ErrUnsupportedExt = errors.New("unsupported file type")
)

func (t BillType) IsValid() bool {
	switch t {
	case Monthly, Weekly, BiWeekly:
		return true
	}
	return false
}

// NewDate creates a midnight-truncated Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Midnight truncates t to midnight, keeping its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsEmpty returns true if the date is zero (optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// CeilDays converts a duration into whole days, rounding toward the ceiling.
func CeilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

// Contains reports whether t falls inside the inclusive window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DaySpan is the inclusive day count of the window, rounded toward the
// ceiling so boundaries that are not exact day multiples still count fully.
// Negative for an inverted window.
func (w Window) DaySpan() int {
	return CeilDays(w.End.Sub(w.Start))
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if len(b.Name) > 200 {
		return errors.New("bill name too long (max 200 characters)")
	}
	if !b.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, string(b.Type))
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	switch b.Type {
	case Monthly:
		if b.Day < 1 || b.Day > 31 {
			return fmt.Errorf("%w: day-of-month %d", ErrInvalidDay, b.Day)
		}
	case Weekly:
		if b.Day < 0 || b.Day > 6 {
			return fmt.Errorf("%w: day-of-week %d", ErrInvalidDay, b.Day)
		}
	case BiWeekly:
		// Day is unused; a missing anchor suppresses expansion rather than
		// failing validation.
	}
	return nil
}
