package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/metrics"
)

type CheckInRepository interface {
	GetEvent(ctx context.Context, tenantID, eventID string) (domain.Event, error)
	GetTicket(ctx context.Context, eventID, ticketID string) (domain.Ticket, error)
	ListTicketsByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error)
	UpdateAttendance(ctx context.Context, ticketID string, attendance domain.Attendance) error
	UpdatePaymentStatus(ctx context.Context, ticketID string, status domain.PaymentStatus) error
}

// CheckInService records attendance and payment changes made by staff at the door.
type CheckInService struct {
	repo    CheckInRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewCheckInService(repo CheckInRepository, logger *zap.Logger, m *metrics.Metrics) *CheckInService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckInService{repo: repo, logger: logger, metrics: m}
}

type TicketRef struct {
	TenantID string
	EventID  string
	TicketID string
}

// MarkAttendance overwrites the attendance mark. There is no guard on the
// previous value and closed events are still writable.
func (s *CheckInService) MarkAttendance(ctx context.Context, ref TicketRef, value string) (domain.Ticket, error) {
	attendance, err := domain.ParseAttendance(value)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket, err := s.ticket(ctx, ref)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := s.repo.UpdateAttendance(ctx, ticket.ID, attendance); err != nil {
		return domain.Ticket{}, err
	}
	ticket.Attendance = attendance
	s.metrics.AttendanceMark(string(attendance))
	return ticket, nil
}

func (s *CheckInService) MarkPayment(ctx context.Context, ref TicketRef, value string) (domain.Ticket, error) {
	status, err := domain.ParsePaymentStatus(value)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket, err := s.ticket(ctx, ref)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := s.repo.UpdatePaymentStatus(ctx, ticket.ID, status); err != nil {
		return domain.Ticket{}, err
	}
	ticket.PaymentStatus = status
	return ticket, nil
}

// Lookup resolves a code against the event's tickets by id, then by number.
func (s *CheckInService) Lookup(ctx context.Context, tenantID, eventID, code string) (domain.Ticket, error) {
	if err := s.ownEvent(ctx, tenantID, eventID); err != nil {
		return domain.Ticket{}, err
	}
	tickets, err := s.repo.ListTicketsByEvent(ctx, eventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	return domain.Lookup(tickets, code)
}

type CheckInResult struct {
	Ticket domain.Ticket
	// Duplicate is set when the ticket was already marked present; nothing is written.
	Duplicate bool
}

// CheckIn resolves a scanned code and marks the ticket present.
func (s *CheckInService) CheckIn(ctx context.Context, tenantID, eventID, code string) (CheckInResult, error) {
	ticket, err := s.Lookup(ctx, tenantID, eventID, code)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			s.metrics.CheckIn("not_found")
		}
		return CheckInResult{}, err
	}

	if ticket.Attendance == domain.AttendancePresent {
		s.metrics.CheckIn("duplicate")
		s.logger.Info("duplicate check-in",
			zap.String("event_id", eventID),
			zap.String("ticket_id", ticket.ID),
			zap.Int("number", ticket.Number),
		)
		return CheckInResult{Ticket: ticket, Duplicate: true}, nil
	}

	if err := s.repo.UpdateAttendance(ctx, ticket.ID, domain.AttendancePresent); err != nil {
		return CheckInResult{}, err
	}
	ticket.Attendance = domain.AttendancePresent
	s.metrics.CheckIn("present")
	s.metrics.AttendanceMark(string(domain.AttendancePresent))
	return CheckInResult{Ticket: ticket}, nil
}

func (s *CheckInService) ticket(ctx context.Context, ref TicketRef) (domain.Ticket, error) {
	if ref.TicketID == "" {
		return domain.Ticket{}, domain.ErrInvalidID
	}
	if err := s.ownEvent(ctx, ref.TenantID, ref.EventID); err != nil {
		return domain.Ticket{}, err
	}
	return s.repo.GetTicket(ctx, ref.EventID, ref.TicketID)
}

func (s *CheckInService) ownEvent(ctx context.Context, tenantID, eventID string) error {
	if tenantID == "" {
		return domain.ErrTenantRequired
	}
	if eventID == "" {
		return domain.ErrInvalidID
	}
	_, err := s.repo.GetEvent(ctx, tenantID, eventID)
	return err
}
