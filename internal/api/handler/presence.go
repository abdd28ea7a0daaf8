package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sharedlist-go/internal/api/middleware"
	"github.com/mcoot/sharedlist-go/internal/api/request"
	"github.com/mcoot/sharedlist-go/internal/api/response"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/presence"
)

// PresenceHandler handles presence endpoints
type PresenceHandler struct {
	presenceService *presence.Service
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(presenceService *presence.Service) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// Heartbeat handles POST /api/lists/{id}/presence/heartbeat
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	listID := model.ListID(mux.Vars(r)["id"])

	var req request.HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = caller.DisplayName
	}

	p := model.Presence{
		Handle:      caller.Handle,
		ListID:      listID,
		DisplayName: displayName,
		Color:       req.Color,
		IsTyping:    req.IsTyping,
	}
	if req.EditingTodo != nil {
		id := model.TodoID(*req.EditingTodo)
		p.EditingTodo = &id
	}

	if err := h.presenceService.Heartbeat(r.Context(), p); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Away handles POST /api/lists/{id}/presence/away
// Clears transient state so the participant stops appearing mid-action.
func (h *PresenceHandler) Away(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	listID := model.ListID(mux.Vars(r)["id"])

	p := model.Presence{
		Handle:      caller.Handle,
		ListID:      listID,
		DisplayName: caller.DisplayName,
	}

	if err := h.presenceService.MarkAway(r.Context(), p); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Snapshot handles GET /api/lists/{id}/presence
func (h *PresenceHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	listID := model.ListID(mux.Vars(r)["id"])

	views, err := h.presenceService.Snapshot(r.Context(), listID, caller.Handle)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PresenceListFromModel(views))
}

// Roster handles GET /api/lists/{id}/presence/roster
// The roster is the 24 hour view: anyone seen within the horizon, however
// stale, rather than only currently-online participants.
func (h *PresenceHandler) Roster(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	listID := model.ListID(mux.Vars(r)["id"])

	views, err := h.presenceService.Roster(r.Context(), listID, caller.Handle)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PresenceListFromModel(views))
}
