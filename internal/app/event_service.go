package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/clock"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, tenantID, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context, tenantID string) ([]domain.Event, error)
	UpdateEventStatus(ctx context.Context, tenantID, eventID string, status domain.EventStatus) error
	DeleteEvent(ctx context.Context, tenantID, eventID string) error
	ListTicketsByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error)
}

type EventService struct {
	repo       EventRepository
	reconciler *Reconciler
	clock      clock.Clock
	logger     *zap.Logger
}

func NewEventService(repo EventRepository, reconciler *Reconciler, clk clock.Clock, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		repo:       repo,
		reconciler: reconciler,
		clock:      clk,
		logger:     logger,
	}
}

type CreateEventInput struct {
	TenantID        string
	Title           string
	Date            string
	Time            string
	Capacity        int
	WaitlistEnabled bool
	IsPaid          bool
	Price           decimal.Decimal
	PaymentKey      string
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.TenantID == "" {
		return domain.Event{}, domain.ErrTenantRequired
	}

	event := domain.Event{
		ID:              newUUID(),
		TenantID:        in.TenantID,
		Title:           trim(in.Title),
		Date:            trim(in.Date),
		Time:            trim(in.Time),
		Capacity:        in.Capacity,
		WaitlistEnabled: in.WaitlistEnabled,
		IsPaid:          in.IsPaid,
		Price:           in.Price,
		PaymentKey:      trim(in.PaymentKey),
		Status:          domain.EventStatusScheduled,
		CreatedAt:       s.clock.Now(),
	}
	if !event.IsPaid {
		event.Price = decimal.Zero
		event.PaymentKey = ""
	}
	if err := event.Validate(); err != nil {
		return domain.Event{}, err
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	s.logger.Info("event created",
		zap.String("tenant_id", event.TenantID),
		zap.String("event_id", event.ID),
		zap.Int("capacity", event.Capacity),
	)
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, tenantID, eventID string) (domain.Event, error) {
	if tenantID == "" {
		return domain.Event{}, domain.ErrTenantRequired
	}
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, tenantID, eventID)
}

// ListEvents returns the tenant's events after auto-closing expired ones.
func (s *EventService) ListEvents(ctx context.Context, tenantID string) ([]domain.Event, error) {
	if tenantID == "" {
		return nil, domain.ErrTenantRequired
	}
	events, err := s.repo.ListEvents(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if s.reconciler == nil {
		return events, nil
	}
	events, _ = s.reconciler.Reconcile(ctx, events)
	return events, nil
}

// UpdateStatus applies a manual status change.
func (s *EventService) UpdateStatus(ctx context.Context, tenantID, eventID string, status domain.EventStatus) (domain.Event, error) {
	event, err := s.GetEvent(ctx, tenantID, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if err := event.CanTransition(status); err != nil {
		return domain.Event{}, err
	}
	if event.Status == status {
		return event, nil
	}
	if err := s.repo.UpdateEventStatus(ctx, tenantID, eventID, status); err != nil {
		return domain.Event{}, err
	}

	s.logger.Info("event status changed",
		zap.String("tenant_id", tenantID),
		zap.String("event_id", eventID),
		zap.String("from", string(event.Status)),
		zap.String("to", string(status)),
	)
	event.Status = status
	return event, nil
}

// DeleteEvent removes the event and, through the store, all of its tickets.
func (s *EventService) DeleteEvent(ctx context.Context, tenantID, eventID string) error {
	if tenantID == "" {
		return domain.ErrTenantRequired
	}
	if eventID == "" {
		return domain.ErrInvalidID
	}
	if err := s.repo.DeleteEvent(ctx, tenantID, eventID); err != nil {
		return err
	}
	s.logger.Info("event deleted", zap.String("tenant_id", tenantID), zap.String("event_id", eventID))
	return nil
}

func (s *EventService) ListTickets(ctx context.Context, tenantID, eventID string) ([]domain.Ticket, error) {
	if _, err := s.GetEvent(ctx, tenantID, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListTicketsByEvent(ctx, eventID)
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
