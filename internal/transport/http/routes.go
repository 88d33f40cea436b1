package http

import (
	"net/http"
)

// EventRoutes dispatches everything below /events/{id}:
//
//	GET|PATCH|DELETE /events/{id}
//	POST  /events/{id}/registrations
//	GET   /events/{id}/tickets
//	POST  /events/{id}/checkin
//	PATCH /events/{id}/tickets/{ticketID}
//	POST  /events/{id}/tickets/{ticketID}/cancel
func EventRoutes(events EventService, registrar Registrar, door DoorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := pathParts(r.URL.Path)
		if len(parts) < 2 || parts[0] != "events" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		eventID := parts[1]

		switch {
		case len(parts) == 2:
			handleEvent(events, w, r, eventID)
		case len(parts) == 3 && parts[2] == "registrations":
			handleRegister(registrar, w, r, eventID)
		case len(parts) == 3 && parts[2] == "tickets":
			handleListTickets(events, w, r, eventID)
		case len(parts) == 3 && parts[2] == "checkin":
			handleCheckIn(door, w, r, eventID)
		case len(parts) == 4 && parts[2] == "tickets":
			handleUpdateTicket(door, w, r, eventID, parts[3])
		case len(parts) == 5 && parts[2] == "tickets" && parts[4] == "cancel":
			handleCancel(registrar, w, r, eventID, parts[3])
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}
