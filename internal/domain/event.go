package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	EventStatusScheduled  EventStatus = "scheduled"
	EventStatusInProgress EventStatus = "in_progress"
	EventStatusClosed     EventStatus = "closed"
	EventStatusCancelled  EventStatus = "cancelled"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusScheduled, EventStatusInProgress, EventStatusClosed, EventStatusCancelled:
		return true
	}
	return false
}

// AcceptsRegistrations is false once an event is closed or cancelled.
func (s EventStatus) AcceptsRegistrations() bool {
	return s != EventStatusClosed && s != EventStatusCancelled
}

// Event is a scheduled gathering owned by a tenant, with a finite ticket capacity.
type Event struct {
	ID              string
	TenantID        string
	Title           string
	Date            string
	Time            string
	Capacity        int
	TicketsIssued   int
	WaitlistEnabled bool
	IsPaid          bool
	Price           decimal.Decimal
	PaymentKey      string
	Status          EventStatus
	CreatedAt       time.Time
}

// StartsAt combines Date and Time in loc. ok is false when either field is
// missing or malformed.
func (e Event) StartsAt(loc *time.Location) (time.Time, bool) {
	date := strings.TrimSpace(e.Date)
	clock := strings.TrimSpace(e.Time)
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Expired reports whether the event's start plus grace lies strictly before now.
// Events without a parseable schedule never expire.
func (e Event) Expired(now time.Time, grace time.Duration, loc *time.Location) bool {
	start, ok := e.StartsAt(loc)
	if !ok {
		return false
	}
	return now.After(start.Add(grace))
}

// CanTransition checks a manual status change. Cancelled is terminal.
func (e Event) CanTransition(to EventStatus) error {
	if !to.Valid() {
		return invalid("status", "unknown status "+string(to))
	}
	if e.Status == EventStatusCancelled && to != EventStatusCancelled {
		return ErrInvalidStatusTransition
	}
	return nil
}

// Validate checks the fields an admin supplies when creating an event.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return invalid("title", "required")
	}
	if _, err := time.Parse(DateLayout, strings.TrimSpace(e.Date)); err != nil {
		return invalid("date", "expected YYYY-MM-DD")
	}
	if _, err := time.Parse(TimeLayout, strings.TrimSpace(e.Time)); err != nil {
		return invalid("time", "expected HH:MM")
	}
	if e.Capacity <= 0 {
		return invalid("capacity", "must be positive")
	}
	if e.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	return nil
}
