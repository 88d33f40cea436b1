package app

import (
	"context"
	"sync"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. WithTx
// snapshots state and restores it when fn fails.
type fakeStore struct {
	mu      sync.Mutex
	events  map[string]domain.Event
	tickets []domain.Ticket

	txCalls      int
	adjustErr    error
	createErr    error
	statusErrFor map[string]error
}

func newFakeStore(events ...domain.Event) *fakeStore {
	s := &fakeStore{
		events:       make(map[string]domain.Event),
		statusErrFor: make(map[string]error),
	}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.txCalls++
	events := make(map[string]domain.Event, len(f.events))
	for k, v := range f.events {
		events[k] = v
	}
	tickets := append([]domain.Ticket(nil), f.tickets...)
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.events = events
		f.tickets = tickets
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) event(tenantID, eventID string) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok || e.TenantID != tenantID {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeStore) GetEvent(_ context.Context, tenantID, eventID string) (domain.Event, error) {
	return f.event(tenantID, eventID)
}

func (f *fakeStore) GetEventForUpdate(_ context.Context, tenantID, eventID string) (domain.Event, error) {
	return f.event(tenantID, eventID)
}

func (f *fakeStore) CreateEvent(_ context.Context, event domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context, tenantID string) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Event
	for _, e := range f.events {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOpenEvents(_ context.Context) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Event
	for _, e := range f.events {
		if e.Status == domain.EventStatusScheduled || e.Status == domain.EventStatusInProgress {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateEventStatus(_ context.Context, tenantID, eventID string, status domain.EventStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.statusErrFor[eventID]; err != nil {
		return err
	}
	e, ok := f.events[eventID]
	if !ok || e.TenantID != tenantID {
		return domain.ErrEventNotFound
	}
	e.Status = status
	f.events[eventID] = e
	return nil
}

func (f *fakeStore) DeleteEvent(_ context.Context, tenantID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok || e.TenantID != tenantID {
		return domain.ErrEventNotFound
	}
	delete(f.events, eventID)
	kept := f.tickets[:0]
	for _, t := range f.tickets {
		if t.EventID != eventID {
			kept = append(kept, t)
		}
	}
	f.tickets = kept
	return nil
}

func (f *fakeStore) CountTickets(_ context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickets {
		if t.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateTicket(_ context.Context, ticket domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, t := range f.tickets {
		if t.EventID == ticket.EventID && t.Number == ticket.Number {
			return domain.ErrTicketNumberTaken
		}
	}
	f.tickets = append(f.tickets, ticket)
	return nil
}

func (f *fakeStore) AdjustTicketsIssued(_ context.Context, eventID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adjustErr != nil {
		return f.adjustErr
	}
	e, ok := f.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.TicketsIssued += delta
	f.events[eventID] = e
	return nil
}

func (f *fakeStore) findTicket(eventID, ticketID string) (int, error) {
	for i, t := range f.tickets {
		if t.ID == ticketID && t.EventID == eventID {
			return i, nil
		}
	}
	return -1, domain.ErrTicketNotFound
}

func (f *fakeStore) GetTicket(_ context.Context, eventID, ticketID string) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.findTicket(eventID, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	return f.tickets[i], nil
}

func (f *fakeStore) GetTicketForUpdate(ctx context.Context, eventID, ticketID string) (domain.Ticket, error) {
	return f.GetTicket(ctx, eventID, ticketID)
}

func (f *fakeStore) ListTicketsByEvent(_ context.Context, eventID string) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, t := range f.tickets {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) updateTicket(ticketID string, fn func(*domain.Ticket)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		if f.tickets[i].ID == ticketID {
			fn(&f.tickets[i])
			return nil
		}
	}
	return domain.ErrTicketNotFound
}

func (f *fakeStore) UpdateTicketStatus(_ context.Context, ticketID string, status domain.TicketStatus) error {
	return f.updateTicket(ticketID, func(t *domain.Ticket) { t.Status = status })
}

func (f *fakeStore) UpdateAttendance(_ context.Context, ticketID string, attendance domain.Attendance) error {
	return f.updateTicket(ticketID, func(t *domain.Ticket) { t.Attendance = attendance })
}

func (f *fakeStore) UpdatePaymentStatus(_ context.Context, ticketID string, status domain.PaymentStatus) error {
	return f.updateTicket(ticketID, func(t *domain.Ticket) { t.PaymentStatus = status })
}

func (f *fakeStore) eventNow(id string) domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[id]
}
