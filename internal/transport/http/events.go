package http

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/app"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

// EventService is the minimal interface needed for event endpoints.
type EventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, tenantID, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context, tenantID string) ([]domain.Event, error)
	UpdateStatus(ctx context.Context, tenantID, eventID string, status domain.EventStatus) (domain.Event, error)
	DeleteEvent(ctx context.Context, tenantID, eventID string) error
	ListTickets(ctx context.Context, tenantID, eventID string) ([]domain.Ticket, error)
}

// HandleEvents serves GET and POST on /events. Listing runs the auto-close pass.
func HandleEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := tenantID(r)

		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context(), tenant)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, toEventResponse(event))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createEventRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				TenantID:        tenant,
				Title:           req.Title,
				Date:            req.Date,
				Time:            req.Time,
				Capacity:        req.Capacity,
				WaitlistEnabled: req.WaitlistEnabled,
				IsPaid:          req.IsPaid,
				Price:           req.Price,
				PaymentKey:      req.PaymentKey,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toEventResponse(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func handleEvent(svc EventService, w http.ResponseWriter, r *http.Request, eventID string) {
	tenant := tenantID(r)

	switch r.Method {
	case http.MethodGet:
		event, err := svc.GetEvent(r.Context(), tenant, eventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	case http.MethodPatch:
		var req updateEventRequest
		if err := decodeJSON(r, &req); err != nil || req.Status == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		event, err := svc.UpdateStatus(r.Context(), tenant, eventID, domain.EventStatus(req.Status))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	case http.MethodDelete:
		if err := svc.DeleteEvent(r.Context(), tenant, eventID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	}
}

func handleListTickets(svc EventService, w http.ResponseWriter, r *http.Request, eventID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}
	tickets, err := svc.ListTickets(r.Context(), tenantID(r), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]ticketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		resp = append(resp, toTicketResponse(ticket))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createEventRequest struct {
	Title           string          `json:"title"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	Capacity        int             `json:"capacity"`
	WaitlistEnabled bool            `json:"waitlist_enabled"`
	IsPaid          bool            `json:"is_paid"`
	Price           decimal.Decimal `json:"price"`
	PaymentKey      string          `json:"payment_key,omitempty"`
}

type updateEventRequest struct {
	Status string `json:"status"`
}

type eventResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	Capacity        int             `json:"capacity"`
	TicketsIssued   int             `json:"tickets_issued"`
	WaitlistEnabled bool            `json:"waitlist_enabled"`
	IsPaid          bool            `json:"is_paid"`
	Price           decimal.Decimal `json:"price"`
	PaymentKey      string          `json:"payment_key,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Date:            e.Date,
		Time:            e.Time,
		Capacity:        e.Capacity,
		TicketsIssued:   e.TicketsIssued,
		WaitlistEnabled: e.WaitlistEnabled,
		IsPaid:          e.IsPaid,
		Price:           e.Price,
		PaymentKey:      e.PaymentKey,
		Status:          string(e.Status),
		CreatedAt:       e.CreatedAt,
	}
}
