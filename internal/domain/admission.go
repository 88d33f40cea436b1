package domain

import (
	"strconv"
	"strings"
)

// RegistrationRequest is what a registrant or staff member submits.
type RegistrationRequest struct {
	HolderName    string
	HolderContact string
	UserID        string
	ContactID     string
	Type          string
	// PaymentIntent, when "paid", records payment collected at the door.
	PaymentIntent string
}

// Admission is the outcome of a successful admission decision.
type Admission struct {
	Number        int
	Type          TicketType
	Status        TicketStatus
	PaymentStatus PaymentStatus
}

// Waitlisted reports whether the ticket landed on the waitlist.
func (a Admission) Waitlisted() bool {
	return a.Status == TicketStatusWaitlisted
}

// Validate checks the holder fields; it does not look at the event.
func (r RegistrationRequest) Validate() (TicketType, error) {
	if strings.TrimSpace(r.HolderName) == "" {
		return "", invalid("guest_name", "required")
	}
	if strings.TrimSpace(r.HolderContact) == "" {
		return "", invalid("guest_phone", "required")
	}
	typ, err := ParseTicketType(r.Type)
	if err != nil {
		return "", err
	}
	if r.PaymentIntent != "" {
		if _, err := ParsePaymentStatus(r.PaymentIntent); err != nil {
			return "", err
		}
	}
	return typ, nil
}

// Admit decides whether a registration is confirmed, waitlisted or rejected.
// existing is the number of tickets already registered for the event, in any status.
func Admit(event Event, existing int, req RegistrationRequest) (Admission, error) {
	typ, err := req.Validate()
	if err != nil {
		return Admission{}, err
	}
	if !event.Status.AcceptsRegistrations() {
		return Admission{}, ErrEventNotAcceptingRegistrations
	}

	status := TicketStatusConfirmed
	if event.TicketsIssued >= event.Capacity {
		if !event.WaitlistEnabled {
			return Admission{}, ErrEventSoldOut
		}
		status = TicketStatusWaitlisted
	}

	return Admission{
		Number:        existing + 1,
		Type:          typ,
		Status:        status,
		PaymentStatus: paymentFor(event, req.PaymentIntent),
	}, nil
}

func paymentFor(event Event, intent string) PaymentStatus {
	if !event.IsPaid {
		return PaymentStatusFree
	}
	if PaymentStatus(strings.TrimSpace(intent)) == PaymentStatusPaid {
		return PaymentStatusPaid
	}
	return PaymentStatusPending
}

// Lookup resolves a scanned or typed code against ticket ids first, then
// ticket numbers. The first match wins.
func Lookup(tickets []Ticket, code string) (Ticket, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Ticket{}, ErrTicketNotFound
	}
	for _, t := range tickets {
		if t.ID == code {
			return t, nil
		}
	}
	for _, t := range tickets {
		if strconv.Itoa(t.Number) == code {
			return t, nil
		}
	}
	return Ticket{}, ErrTicketNotFound
}

// NextWaitlisted returns the lowest-numbered waitlisted ticket, if any.
func NextWaitlisted(tickets []Ticket) (Ticket, bool) {
	var next Ticket
	found := false
	for _, t := range tickets {
		if t.Status != TicketStatusWaitlisted {
			continue
		}
		if !found || t.Number < next.Number {
			next = t
			found = true
		}
	}
	return next, found
}
