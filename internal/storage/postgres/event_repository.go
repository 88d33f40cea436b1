package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

// EventRepository stores events scoped by tenant.
type EventRepository struct {
	conn
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{conn{pool: pool}}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const eventColumns = `id, tenant_id, title, event_date, event_time, capacity, tickets_issued,
	waitlist_enabled, is_paid, price::text, payment_key, status, created_at`

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		e     domain.Event
		price string
	)
	err := row.Scan(&e.ID, &e.TenantID, &e.Title, &e.Date, &e.Time, &e.Capacity, &e.TicketsIssued,
		&e.WaitlistEnabled, &e.IsPaid, &price, &e.PaymentKey, &e.Status, &e.CreatedAt)
	if err != nil {
		return domain.Event{}, err
	}
	e.Price, err = decimal.NewFromString(price)
	if err != nil {
		return domain.Event{}, fmt.Errorf("parse price %q: %w", price, err)
	}
	return e, nil
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, tenant_id, title, event_date, event_time, capacity, tickets_issued,
	waitlist_enabled, is_paid, price, payment_key, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::text::numeric, $11, $12, $13)`

	_, err := r.exec(ctx, stmt,
		event.ID,
		event.TenantID,
		event.Title,
		event.Date,
		event.Time,
		event.Capacity,
		event.TicketsIssued,
		event.WaitlistEnabled,
		event.IsPaid,
		event.Price.String(),
		event.PaymentKey,
		string(event.Status),
		event.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, tenantID, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND tenant_id = $2`
	return r.getEvent(ctx, query, eventID, tenantID)
}

// GetEventForUpdate locks the event row until the surrounding transaction ends.
func (r *EventRepository) GetEventForUpdate(ctx context.Context, tenantID, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND tenant_id = $2 FOR UPDATE`
	return r.getEvent(ctx, query, eventID, tenantID)
}

func (r *EventRepository) getEvent(ctx context.Context, query string, args ...any) (domain.Event, error) {
	e, err := scanEvent(r.queryRow(ctx, query, args...))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) ListEvents(ctx context.Context, tenantID string) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE tenant_id = $1 ORDER BY event_date, event_time, created_at`
	return r.listEvents(ctx, query, tenantID)
}

// ListOpenEvents returns scheduled and in-progress events of every tenant.
func (r *EventRepository) ListOpenEvents(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status IN ('scheduled', 'in_progress') ORDER BY created_at`
	return r.listEvents(ctx, query)
}

func (r *EventRepository) listEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) UpdateEventStatus(ctx context.Context, tenantID, eventID string, status domain.EventStatus) error {
	const stmt = `UPDATE events SET status = $3 WHERE id = $1 AND tenant_id = $2`
	tag, err := r.exec(ctx, stmt, eventID, tenantID, string(status))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("update event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// AdjustTicketsIssued adds delta to the issued counter, never going below zero.
func (r *EventRepository) AdjustTicketsIssued(ctx context.Context, eventID string, delta int) error {
	const stmt = `UPDATE events SET tickets_issued = GREATEST(tickets_issued + $2, 0) WHERE id = $1`
	tag, err := r.exec(ctx, stmt, eventID, delta)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("adjust tickets issued: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// DeleteEvent removes the event; its tickets go with it through ON DELETE CASCADE.
func (r *EventRepository) DeleteEvent(ctx context.Context, tenantID, eventID string) error {
	tag, err := r.exec(ctx, `DELETE FROM events WHERE id = $1 AND tenant_id = $2`, eventID, tenantID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
