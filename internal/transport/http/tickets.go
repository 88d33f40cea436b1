package http

import (
	"context"
	"net/http"
	"time"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/app"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

// Registrar is the minimal interface needed to admit and cancel tickets.
type Registrar interface {
	Register(ctx context.Context, in app.RegisterInput) (domain.Ticket, error)
	CancelTicket(ctx context.Context, in app.CancelTicketInput) (domain.Ticket, error)
}

// DoorService is the minimal interface needed for check-in and ticket marks.
type DoorService interface {
	CheckIn(ctx context.Context, tenantID, eventID, code string) (app.CheckInResult, error)
	MarkAttendance(ctx context.Context, ref app.TicketRef, value string) (domain.Ticket, error)
	MarkPayment(ctx context.Context, ref app.TicketRef, value string) (domain.Ticket, error)
}

func handleRegister(svc Registrar, w http.ResponseWriter, r *http.Request, eventID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	ticket, err := svc.Register(r.Context(), app.RegisterInput{
		TenantID: tenantID(r),
		EventID:  eventID,
		Request: domain.RegistrationRequest{
			HolderName:    req.GuestName,
			HolderContact: req.GuestPhone,
			UserID:        req.UserID,
			ContactID:     req.ContactID,
			Type:          req.Type,
			PaymentIntent: req.Payment,
		},
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTicketResponse(ticket))
}

func handleCancel(svc Registrar, w http.ResponseWriter, r *http.Request, eventID, ticketID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	ticket, err := svc.CancelTicket(r.Context(), app.CancelTicketInput{
		TenantID: tenantID(r),
		EventID:  eventID,
		TicketID: ticketID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

func handleCheckIn(svc DoorService, w http.ResponseWriter, r *http.Request, eventID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	res, err := svc.CheckIn(r.Context(), tenantID(r), eventID, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkInResponse{
		Ticket:    toTicketResponse(res.Ticket),
		Duplicate: res.Duplicate,
	})
}

// handleUpdateTicket applies attendance and/or payment marks. Attendance is
// written first; a failure on payment leaves the attendance mark in place.
func handleUpdateTicket(svc DoorService, w http.ResponseWriter, r *http.Request, eventID, ticketID string) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req updateTicketRequest
	if err := decodeJSON(r, &req); err != nil || (req.Attendance == nil && req.PaymentStatus == nil) {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	ref := app.TicketRef{TenantID: tenantID(r), EventID: eventID, TicketID: ticketID}
	var (
		ticket domain.Ticket
		err    error
	)
	if req.Attendance != nil {
		if ticket, err = svc.MarkAttendance(r.Context(), ref, *req.Attendance); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	if req.PaymentStatus != nil {
		if ticket, err = svc.MarkPayment(r.Context(), ref, *req.PaymentStatus); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

type registerRequest struct {
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`
	Type       string `json:"type"`
	UserID     string `json:"user_id,omitempty"`
	ContactID  string `json:"contact_id,omitempty"`
	Payment    string `json:"payment,omitempty"`
}

type checkInRequest struct {
	Code string `json:"code"`
}

type updateTicketRequest struct {
	Attendance    *string `json:"attendance,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

type ticketResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	GuestName     string    `json:"guest_name"`
	GuestPhone    string    `json:"guest_phone"`
	UserID        string    `json:"user_id,omitempty"`
	ContactID     string    `json:"contact_id,omitempty"`
	Number        int       `json:"number"`
	Display       string    `json:"display"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Attendance    string    `json:"attendance"`
	CreatedAt     time.Time `json:"created_at"`
}

type checkInResponse struct {
	Ticket    ticketResponse `json:"ticket"`
	Duplicate bool           `json:"duplicate"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:            t.ID,
		EventID:       t.EventID,
		GuestName:     t.HolderName,
		GuestPhone:    t.HolderContact,
		UserID:        t.UserID,
		ContactID:     t.ContactID,
		Number:        t.Number,
		Display:       t.DisplayNumber(),
		Type:          string(t.Type),
		Status:        string(t.Status),
		PaymentStatus: string(t.PaymentStatus),
		Attendance:    string(t.Attendance),
		CreatedAt:     t.CreatedAt,
	}
}
