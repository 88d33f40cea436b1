package domain

import (
	"fmt"
	"strings"
	"time"
)

type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusConfirmed  TicketStatus = "confirmed"
	TicketStatusCancelled  TicketStatus = "cancelled"
	TicketStatusWaitlisted TicketStatus = "waitlisted"
)

type TicketType string

const (
	TicketTypeNormal       TicketType = "normal"
	TicketTypePreferential TicketType = "preferential"
)

// ParseTicketType accepts the Portuguese spelling used by the public form.
// An empty value defaults to normal.
func ParseTicketType(s string) (TicketType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return TicketTypeNormal, nil
	case "preferential", "preferencial":
		return TicketTypePreferential, nil
	}
	return "", invalid("type", "unknown ticket type "+s)
}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFree    PaymentStatus = "free"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(strings.TrimSpace(s)); p {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusFree:
		return p, nil
	}
	return "", invalid("payment_status", "unknown payment status "+s)
}

type Attendance string

const (
	AttendancePresent  Attendance = "present"
	AttendanceAbsent   Attendance = "absent"
	AttendanceExcused  Attendance = "excused"
	AttendanceUnmarked Attendance = "unmarked"
)

// ParseAttendance accepts the three marks staff can set; unmarked is only an initial state.
func ParseAttendance(s string) (Attendance, error) {
	switch a := Attendance(strings.TrimSpace(s)); a {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused:
		return a, nil
	}
	return "", invalid("attendance", "expected present, absent or excused")
}

// Ticket is one admission record for one holder at one event.
type Ticket struct {
	ID            string
	EventID       string
	TenantID      string
	HolderName    string
	HolderContact string
	UserID        string
	ContactID     string
	Number        int
	Type          TicketType
	Status        TicketStatus
	PaymentStatus PaymentStatus
	Attendance    Attendance
	CreatedAt     time.Time
}

// DisplayNumber renders the sequence number; waitlisted tickets get a distinct prefix.
func (t Ticket) DisplayNumber() string {
	if t.Status == TicketStatusWaitlisted {
		return fmt.Sprintf("W-%03d", t.Number)
	}
	return fmt.Sprintf("#%03d", t.Number)
}
