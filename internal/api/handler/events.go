package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/sharedlist-go/internal/api/middleware"
	"github.com/mcoot/sharedlist-go/internal/api/response"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/access"
	"github.com/mcoot/sharedlist-go/internal/services/guestlink"
	"github.com/mcoot/sharedlist-go/internal/services/presence"
	"github.com/mcoot/sharedlist-go/internal/services/todo"
)

// Time between keepalive pings
const pingPeriod = 15 * time.Second

// EventsHandler streams list state to clients over Server-Sent Events.
// Each connected client gets its own storage watch; an event carries the
// full reconciled view rather than a delta, so a missed event costs
// nothing once the next one arrives.
type EventsHandler struct {
	todoService      *todo.Service
	presenceService  *presence.Service
	accessService    *access.Service
	guestLinkService *guestlink.Service
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(
	todoService *todo.Service,
	presenceService *presence.Service,
	accessService *access.Service,
	guestLinkService *guestlink.Service,
) *EventsHandler {
	return &EventsHandler{
		todoService:      todoService,
		presenceService:  presenceService,
		accessService:    accessService,
		guestLinkService: guestLinkService,
	}
}

// Stream handles GET /api/lists/{id}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	listID := model.ListID(mux.Vars(r)["id"])

	if _, err := resolveRole(r.Context(), h.accessService, h.guestLinkService, listID, caller); err != nil {
		WriteError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	todos, err := h.todoService.View(r.Context(), listID)
	if err != nil {
		WriteError(w, err)
		return
	}
	views, err := h.presenceService.Observe(r.Context(), listID, caller.Handle)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snapshot, ok := <-todos:
			if !ok {
				return
			}
			if err := writeEvent(w, flusher, "todos", response.SnapshotFromModel(snapshot)); err != nil {
				return
			}

		case presenceViews, ok := <-views:
			if !ok {
				return
			}
			if err := writeEvent(w, flusher, "presence", response.PresenceListFromModel(presenceViews)); err != nil {
				return
			}

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
