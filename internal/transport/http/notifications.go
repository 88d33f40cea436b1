package http

import (
	"context"
	"net/http"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/app"
)

// ReadMarkerService is the minimal interface needed for notification read markers.
type ReadMarkerService interface {
	MarkRead(ctx context.Context, m app.ReadMarker) error
	MarkUnread(ctx context.Context, m app.ReadMarker) error
	ListRead(ctx context.Context, tenantID, userID string) ([]string, error)
}

// HandleNotifications serves GET /notifications/read and
// PUT|DELETE /notifications/{id}/read for the user in X-User-ID.
func HandleNotifications(svc ReadMarkerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := pathParts(r.URL.Path)
		tenant, user := tenantID(r), userID(r)

		switch {
		case len(parts) == 2 && parts[0] == "notifications" && parts[1] == "read":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			ids, err := svc.ListRead(r.Context(), tenant, user)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			if ids == nil {
				ids = []string{}
			}
			writeJSON(w, http.StatusOK, readMarkersResponse{Read: ids})
		case len(parts) == 3 && parts[0] == "notifications" && parts[2] == "read":
			marker := app.ReadMarker{TenantID: tenant, UserID: user, NotificationID: parts[1]}
			var err error
			switch r.Method {
			case http.MethodPut:
				err = svc.MarkRead(r.Context(), marker)
			case http.MethodDelete:
				err = svc.MarkUnread(r.Context(), marker)
			default:
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

type readMarkersResponse struct {
	Read []string `json:"read"`
}
