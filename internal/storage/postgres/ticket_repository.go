package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

const ticketNumberConstraint = "tickets_event_number_key"

type TicketRepository struct {
	conn
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{conn{pool: pool}}
}

const ticketColumns = `id, event_id, tenant_id, holder_name, holder_contact, user_id, contact_id,
	number, type, status, payment_status, attendance, created_at`

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.EventID, &t.TenantID, &t.HolderName, &t.HolderContact, &t.UserID, &t.ContactID,
		&t.Number, &t.Type, &t.Status, &t.PaymentStatus, &t.Attendance, &t.CreatedAt)
	return t, err
}

func (r *TicketRepository) CountTickets(ctx context.Context, eventID string) (int, error) {
	var n int
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE event_id = $1`, eventID).Scan(&n); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return n, nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, event_id, tenant_id, holder_name, holder_contact, user_id, contact_id,
	number, type, status, payment_status, attendance, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.exec(ctx, stmt,
		ticket.ID,
		ticket.EventID,
		ticket.TenantID,
		ticket.HolderName,
		ticket.HolderContact,
		ticket.UserID,
		ticket.ContactID,
		ticket.Number,
		string(ticket.Type),
		string(ticket.Status),
		string(ticket.PaymentStatus),
		string(ticket.Attendance),
		ticket.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == ticketNumberConstraint {
			return domain.ErrTicketNumberTaken
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetTicket(ctx context.Context, eventID, ticketID string) (domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1 AND event_id = $2`
	return r.getTicket(ctx, query, ticketID, eventID)
}

func (r *TicketRepository) GetTicketForUpdate(ctx context.Context, eventID, ticketID string) (domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1 AND event_id = $2 FOR UPDATE`
	return r.getTicket(ctx, query, ticketID, eventID)
}

func (r *TicketRepository) getTicket(ctx context.Context, query string, args ...any) (domain.Ticket, error) {
	t, err := scanTicket(r.queryRow(ctx, query, args...))
	if err != nil {
		if isInvalidUUID(err) || errors.Is(err, pgx.ErrNoRows) {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

// ListTicketsByEvent returns the event's tickets in number order.
func (r *TicketRepository) ListTicketsByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id = $1 ORDER BY number`
	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate tickets: %w", rows.Err())
	}
	return tickets, nil
}

func (r *TicketRepository) UpdateTicketStatus(ctx context.Context, ticketID string, status domain.TicketStatus) error {
	return r.updateColumn(ctx, "status", ticketID, string(status))
}

func (r *TicketRepository) UpdateAttendance(ctx context.Context, ticketID string, attendance domain.Attendance) error {
	return r.updateColumn(ctx, "attendance", ticketID, string(attendance))
}

func (r *TicketRepository) UpdatePaymentStatus(ctx context.Context, ticketID string, status domain.PaymentStatus) error {
	return r.updateColumn(ctx, "payment_status", ticketID, string(status))
}

// updateColumn is only called with the fixed column names above.
func (r *TicketRepository) updateColumn(ctx context.Context, column, ticketID, value string) error {
	stmt := `UPDATE tickets SET ` + column + ` = $2 WHERE id = $1`
	tag, err := r.exec(ctx, stmt, ticketID, value)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrTicketNotFound
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("update ticket %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}
