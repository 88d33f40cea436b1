package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/clock"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/metrics"
)

type RegistrationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, tenantID, eventID string) (domain.Event, error)
	GetEventForUpdate(ctx context.Context, tenantID, eventID string) (domain.Event, error)
	CountTickets(ctx context.Context, eventID string) (int, error)
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	AdjustTicketsIssued(ctx context.Context, eventID string, delta int) error
	GetTicketForUpdate(ctx context.Context, eventID, ticketID string) (domain.Ticket, error)
	UpdateTicketStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error
	ListTicketsByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error)
}

// AdmissionMode selects how the capacity read-check-write is isolated.
type AdmissionMode string

const (
	// AdmissionLocked runs the whole admission in one transaction holding the event row lock.
	AdmissionLocked AdmissionMode = "locked"
	// AdmissionOptimistic reads, decides and writes without isolation; the
	// issued counter is bumped afterwards on a best-effort basis.
	AdmissionOptimistic AdmissionMode = "optimistic"
)

func ParseAdmissionMode(s string) (AdmissionMode, error) {
	switch m := AdmissionMode(s); m {
	case AdmissionLocked, AdmissionOptimistic:
		return m, nil
	case "":
		return AdmissionLocked, nil
	}
	return "", fmt.Errorf("unknown admission mode %q", s)
}

// Cancellation describes a ticket that was just cancelled. Event reflects the
// issued counter after the cancellation was applied.
type Cancellation struct {
	Event          domain.Event
	Ticket         domain.Ticket
	PreviousStatus domain.TicketStatus
}

// TicketCancelledHook runs inside the cancellation transaction. Returning an
// error rolls the cancellation back.
type TicketCancelledHook func(ctx context.Context, c Cancellation) error

type RegistrationService struct {
	repo              RegistrationRepository
	clock             clock.Clock
	mode              AdmissionMode
	onTicketCancelled TicketCancelledHook
	logger            *zap.Logger
	metrics           *metrics.Metrics
}

type RegistrationOption func(*RegistrationService)

// WithAdmissionMode overrides the default locked admission.
func WithAdmissionMode(mode AdmissionMode) RegistrationOption {
	return func(s *RegistrationService) {
		if mode != "" {
			s.mode = mode
		}
	}
}

func WithOnTicketCancelled(hook TicketCancelledHook) RegistrationOption {
	return func(s *RegistrationService) {
		s.onTicketCancelled = hook
	}
}

// WithWaitlistPromotion installs PromoteNextWaitlisted as the cancellation hook.
func WithWaitlistPromotion() RegistrationOption {
	return func(s *RegistrationService) {
		s.onTicketCancelled = s.PromoteNextWaitlisted
	}
}

func WithRegistrationLogger(logger *zap.Logger) RegistrationOption {
	return func(s *RegistrationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRegistrationMetrics(m *metrics.Metrics) RegistrationOption {
	return func(s *RegistrationService) {
		s.metrics = m
	}
}

func NewRegistrationService(repo RegistrationRepository, clk clock.Clock, opts ...RegistrationOption) *RegistrationService {
	svc := &RegistrationService{
		repo:   repo,
		clock:  clk,
		mode:   AdmissionLocked,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type RegisterInput struct {
	TenantID string
	EventID  string
	Request  domain.RegistrationRequest
}

// Register admits, waitlists or rejects a registration and persists the ticket.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domain.Ticket, error) {
	if in.TenantID == "" {
		return domain.Ticket{}, domain.ErrTenantRequired
	}
	if in.EventID == "" {
		return domain.Ticket{}, domain.ErrInvalidID
	}
	if _, err := in.Request.Validate(); err != nil {
		s.metrics.Registration("invalid")
		return domain.Ticket{}, err
	}

	var (
		ticket domain.Ticket
		err    error
	)
	if s.mode == AdmissionOptimistic {
		ticket, err = s.registerOptimistic(ctx, in)
	} else {
		ticket, err = s.registerLocked(ctx, in)
	}
	if err != nil {
		s.metrics.Registration(registrationOutcome(err))
		return domain.Ticket{}, err
	}

	s.metrics.Registration(string(ticket.Status))
	s.logger.Info("ticket registered",
		zap.String("tenant_id", in.TenantID),
		zap.String("event_id", in.EventID),
		zap.String("ticket_id", ticket.ID),
		zap.Int("number", ticket.Number),
		zap.String("status", string(ticket.Status)),
	)
	return ticket, nil
}

func (s *RegistrationService) registerLocked(ctx context.Context, in RegisterInput) (domain.Ticket, error) {
	var result domain.Ticket
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, in.TenantID, in.EventID)
		if err != nil {
			return err
		}
		existing, err := s.repo.CountTickets(txCtx, in.EventID)
		if err != nil {
			return err
		}
		adm, err := domain.Admit(event, existing, in.Request)
		if err != nil {
			return err
		}

		ticket := s.newTicket(event, adm, in.Request)
		if err := s.repo.CreateTicket(txCtx, ticket); err != nil {
			return err
		}
		if !adm.Waitlisted() {
			if err := s.repo.AdjustTicketsIssued(txCtx, in.EventID, 1); err != nil {
				return err
			}
			s.metrics.CounterUpdate("ok")
		}
		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return result, nil
}

// registerOptimistic keeps the unguarded read-then-write: concurrent
// registrations may both pass the capacity check. Number collisions are caught
// by the store's uniqueness constraint and surface as ErrTicketNumberTaken.
func (s *RegistrationService) registerOptimistic(ctx context.Context, in RegisterInput) (domain.Ticket, error) {
	event, err := s.repo.GetEvent(ctx, in.TenantID, in.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	existing, err := s.repo.CountTickets(ctx, in.EventID)
	if err != nil {
		return domain.Ticket{}, err
	}
	adm, err := domain.Admit(event, existing, in.Request)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket := s.newTicket(event, adm, in.Request)
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	if adm.Waitlisted() {
		return ticket, nil
	}

	if err := s.repo.AdjustTicketsIssued(ctx, in.EventID, 1); err != nil {
		s.metrics.CounterUpdate("failed")
		s.logger.Warn("tickets issued counter not updated",
			zap.String("event_id", in.EventID),
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
		return ticket, nil
	}
	s.metrics.CounterUpdate("ok")
	return ticket, nil
}

func (s *RegistrationService) newTicket(event domain.Event, adm domain.Admission, req domain.RegistrationRequest) domain.Ticket {
	return domain.Ticket{
		ID:            newUUID(),
		EventID:       event.ID,
		TenantID:      event.TenantID,
		HolderName:    trim(req.HolderName),
		HolderContact: trim(req.HolderContact),
		UserID:        trim(req.UserID),
		ContactID:     trim(req.ContactID),
		Number:        adm.Number,
		Type:          adm.Type,
		Status:        adm.Status,
		PaymentStatus: adm.PaymentStatus,
		Attendance:    domain.AttendanceUnmarked,
		CreatedAt:     s.clock.Now(),
	}
}

type CancelTicketInput struct {
	TenantID string
	EventID  string
	TicketID string
}

// CancelTicket marks a ticket cancelled and frees its seat when it was confirmed.
// Cancelling an already cancelled ticket is a no-op.
func (s *RegistrationService) CancelTicket(ctx context.Context, in CancelTicketInput) (domain.Ticket, error) {
	if in.TenantID == "" {
		return domain.Ticket{}, domain.ErrTenantRequired
	}
	if in.EventID == "" || in.TicketID == "" {
		return domain.Ticket{}, domain.ErrInvalidID
	}

	var result domain.Ticket
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, in.TenantID, in.EventID)
		if err != nil {
			return err
		}
		ticket, err := s.repo.GetTicketForUpdate(txCtx, in.EventID, in.TicketID)
		if err != nil {
			return err
		}
		if ticket.Status == domain.TicketStatusCancelled {
			result = ticket
			return nil
		}

		previous := ticket.Status
		if err := s.repo.UpdateTicketStatus(txCtx, ticket.ID, domain.TicketStatusCancelled); err != nil {
			return err
		}
		ticket.Status = domain.TicketStatusCancelled

		if previous == domain.TicketStatusConfirmed {
			if err := s.repo.AdjustTicketsIssued(txCtx, event.ID, -1); err != nil {
				return err
			}
			event.TicketsIssued--
		}

		if s.onTicketCancelled != nil {
			if err := s.onTicketCancelled(txCtx, Cancellation{
				Event:          event,
				Ticket:         ticket,
				PreviousStatus: previous,
			}); err != nil {
				return fmt.Errorf("ticket cancelled hook: %w", err)
			}
		}

		result = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	s.logger.Info("ticket cancelled",
		zap.String("tenant_id", in.TenantID),
		zap.String("event_id", in.EventID),
		zap.String("ticket_id", in.TicketID),
	)
	return result, nil
}

// PromoteNextWaitlisted confirms the oldest waitlisted ticket when the
// cancellation freed a seat. It is only active when installed with
// WithWaitlistPromotion.
func (s *RegistrationService) PromoteNextWaitlisted(ctx context.Context, c Cancellation) error {
	if c.PreviousStatus != domain.TicketStatusConfirmed {
		return nil
	}
	if c.Event.TicketsIssued >= c.Event.Capacity {
		return nil
	}

	tickets, err := s.repo.ListTicketsByEvent(ctx, c.Event.ID)
	if err != nil {
		return err
	}
	next, ok := domain.NextWaitlisted(tickets)
	if !ok {
		return nil
	}

	if err := s.repo.UpdateTicketStatus(ctx, next.ID, domain.TicketStatusConfirmed); err != nil {
		return err
	}
	if err := s.repo.AdjustTicketsIssued(ctx, c.Event.ID, 1); err != nil {
		return err
	}

	s.logger.Info("waitlisted ticket promoted",
		zap.String("event_id", c.Event.ID),
		zap.String("ticket_id", next.ID),
		zap.Int("number", next.Number),
	)
	return nil
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrEventSoldOut):
		return "sold_out"
	case errors.Is(err, domain.ErrEventNotAcceptingRegistrations):
		return "not_accepting"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrInvalidID):
		return "not_found"
	default:
		return "error"
	}
}
