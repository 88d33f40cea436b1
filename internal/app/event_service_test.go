package app

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/clock"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

func newEventService(store *fakeStore, now time.Time) *EventService {
	clk := clock.NewFixed(now)
	return NewEventService(store, NewReconciler(store, clk), clk, nil)
}

func TestEventService_CreateEvent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	now := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	svc := newEventService(store, now)

	got, err := svc.CreateEvent(context.Background(), CreateEventInput{
		TenantID:        tenant,
		Title:           "  Festa de Iemanjá ",
		Date:            "2025-02-02",
		Time:            "18:00",
		Capacity:        120,
		WaitlistEnabled: true,
		IsPaid:          true,
		Price:           decimal.RequireFromString("30.00"),
		PaymentKey:      "pix@terreiro.org",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Festa de Iemanjá", got.Title)
	assert.Equal(t, domain.EventStatusScheduled, got.Status)
	assert.Equal(t, 0, got.TicketsIssued)
	assert.Equal(t, now, got.CreatedAt)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("30")))

	stored, err := store.GetEvent(context.Background(), tenant, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Title, stored.Title)
}

func TestEventService_CreateFreeEventClearsPayment(t *testing.T) {
	t.Parallel()

	svc := newEventService(newFakeStore(), time.Now())

	got, err := svc.CreateEvent(context.Background(), CreateEventInput{
		TenantID:   tenant,
		Title:      "Gira de Caboclo",
		Date:       "2025-03-10",
		Time:       "19:30",
		Capacity:   80,
		Price:      decimal.NewFromInt(10),
		PaymentKey: "pix",
	})
	require.NoError(t, err)
	assert.True(t, got.Price.IsZero())
	assert.Empty(t, got.PaymentKey)
}

func TestEventService_CreateEventValidation(t *testing.T) {
	t.Parallel()

	svc := newEventService(newFakeStore(), time.Now())
	ctx := context.Background()
	base := CreateEventInput{TenantID: tenant, Title: "Gira", Date: "2025-03-10", Time: "19:30", Capacity: 10}

	cases := map[string]func(in *CreateEventInput){
		"missing title":  func(in *CreateEventInput) { in.Title = " " },
		"bad date":       func(in *CreateEventInput) { in.Date = "10/03/2025" },
		"bad time":       func(in *CreateEventInput) { in.Time = "7pm" },
		"zero capacity":  func(in *CreateEventInput) { in.Capacity = 0 },
		"negative price": func(in *CreateEventInput) { in.IsPaid = true; in.Price = decimal.NewFromInt(-5) },
	}
	for name, mutate := range cases {
		in := base
		mutate(&in)
		_, err := svc.CreateEvent(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}

	in := base
	in.TenantID = ""
	_, err := svc.CreateEvent(ctx, in)
	assert.ErrorIs(t, err, domain.ErrTenantRequired)
}

func TestEventService_ListEventsReconciles(t *testing.T) {
	t.Parallel()

	past := testEvent("past", 10, false)
	past.Date = "2024-01-01"
	upcoming := testEvent("upcoming", 10, false)
	upcoming.Date = "2024-12-31"
	other := testEvent("other-tenant", 10, false)
	other.TenantID = "terreiro-2"
	other.Date = "2024-01-01"

	store := newFakeStore(past, upcoming, other)
	svc := newEventService(store, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	events, err := svc.ListEvents(context.Background(), tenant)
	require.NoError(t, err)
	require.Len(t, events, 2)

	byID := map[string]domain.Event{}
	for _, e := range events {
		byID[e.ID] = e
	}
	assert.Equal(t, domain.EventStatusClosed, byID["past"].Status)
	assert.Equal(t, domain.EventStatusScheduled, byID["upcoming"].Status)
	assert.Equal(t, domain.EventStatusClosed, store.eventNow("past").Status)
	assert.Equal(t, domain.EventStatusScheduled, store.eventNow("other-tenant").Status, "other tenants are reconciled on their own list")
}

func TestEventService_UpdateStatus(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testEvent("event-1", 10, false))
	svc := newEventService(store, time.Now())
	ctx := context.Background()

	got, err := svc.UpdateStatus(ctx, tenant, "event-1", domain.EventStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusInProgress, got.Status)

	got, err = svc.UpdateStatus(ctx, tenant, "event-1", domain.EventStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusClosed, got.Status)

	got, err = svc.UpdateStatus(ctx, tenant, "event-1", domain.EventStatusScheduled)
	require.NoError(t, err, "closed events may be reopened by hand")
	assert.Equal(t, domain.EventStatusScheduled, got.Status)

	_, err = svc.UpdateStatus(ctx, tenant, "event-1", domain.EventStatus("postponed"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateStatus(ctx, tenant, "event-1", domain.EventStatusCancelled)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, tenant, "event-1", domain.EventStatusScheduled)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	assert.Equal(t, domain.EventStatusCancelled, store.eventNow("event-1").Status)

	_, err = svc.UpdateStatus(ctx, "terreiro-2", "event-1", domain.EventStatusClosed)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventService_DeleteEventCascades(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testEvent("event-1", 10, false), testEvent("event-2", 10, false))
	reg := NewRegistrationService(store, clock.NewFixed(time.Now()))
	ctx := context.Background()
	for _, id := range []string{"event-1", "event-1", "event-2"} {
		_, err := reg.Register(ctx, registration(id, "Ana"))
		require.NoError(t, err)
	}

	svc := newEventService(store, time.Now())

	assert.ErrorIs(t, svc.DeleteEvent(ctx, "terreiro-2", "event-1"), domain.ErrEventNotFound)
	require.NoError(t, svc.DeleteEvent(ctx, tenant, "event-1"))

	_, err := svc.GetEvent(ctx, tenant, "event-1")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	left, err := store.ListTicketsByEvent(ctx, "event-1")
	require.NoError(t, err)
	assert.Empty(t, left)

	kept, err := svc.ListTickets(ctx, tenant, "event-2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
