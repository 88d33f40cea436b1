package http

import (
	"context"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/app"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

type stubEvents struct {
	event   domain.Event
	events  []domain.Event
	tickets []domain.Ticket
	err     error

	gotCreate app.CreateEventInput
	gotTenant string
	gotStatus domain.EventStatus
	deleted   string
}

func (s *stubEvents) CreateEvent(_ context.Context, in app.CreateEventInput) (domain.Event, error) {
	s.gotCreate = in
	return s.event, s.err
}

func (s *stubEvents) GetEvent(_ context.Context, tenantID, _ string) (domain.Event, error) {
	s.gotTenant = tenantID
	return s.event, s.err
}

func (s *stubEvents) ListEvents(_ context.Context, tenantID string) ([]domain.Event, error) {
	s.gotTenant = tenantID
	return s.events, s.err
}

func (s *stubEvents) UpdateStatus(_ context.Context, _, _ string, status domain.EventStatus) (domain.Event, error) {
	s.gotStatus = status
	e := s.event
	e.Status = status
	return e, s.err
}

func (s *stubEvents) DeleteEvent(_ context.Context, _, eventID string) error {
	s.deleted = eventID
	return s.err
}

func (s *stubEvents) ListTickets(_ context.Context, _, _ string) ([]domain.Ticket, error) {
	return s.tickets, s.err
}

type stubRegistrar struct {
	ticket domain.Ticket
	err    error

	gotRegister app.RegisterInput
	gotCancel   app.CancelTicketInput
}

func (s *stubRegistrar) Register(_ context.Context, in app.RegisterInput) (domain.Ticket, error) {
	s.gotRegister = in
	return s.ticket, s.err
}

func (s *stubRegistrar) CancelTicket(_ context.Context, in app.CancelTicketInput) (domain.Ticket, error) {
	s.gotCancel = in
	return s.ticket, s.err
}

type stubDoor struct {
	result app.CheckInResult
	ticket domain.Ticket
	err    error

	gotCode       string
	gotAttendance string
	gotPayment    string
}

func (s *stubDoor) CheckIn(_ context.Context, _, _, code string) (app.CheckInResult, error) {
	s.gotCode = code
	return s.result, s.err
}

func (s *stubDoor) MarkAttendance(_ context.Context, _ app.TicketRef, value string) (domain.Ticket, error) {
	s.gotAttendance = value
	return s.ticket, s.err
}

func (s *stubDoor) MarkPayment(_ context.Context, _ app.TicketRef, value string) (domain.Ticket, error) {
	s.gotPayment = value
	return s.ticket, s.err
}
