package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sharedlist-go/internal/api/middleware"
	"github.com/mcoot/sharedlist-go/internal/api/request"
	"github.com/mcoot/sharedlist-go/internal/api/response"
	"github.com/mcoot/sharedlist-go/internal/dependencies/clock"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/guestlink"
	"github.com/mcoot/sharedlist-go/internal/services/list"
)

// GuestLinkHandler handles guest link management and guest entry
type GuestLinkHandler struct {
	guestLinkService *guestlink.Service
	listService      *list.Service
	clock            clock.Clock
}

// NewGuestLinkHandler creates a new guest link handler
func NewGuestLinkHandler(guestLinkService *guestlink.Service, listService *list.Service, clk clock.Clock) *GuestLinkHandler {
	return &GuestLinkHandler{
		guestLinkService: guestLinkService,
		listService:      listService,
		clock:            clk,
	}
}

// requireDirectCaller rejects callers who themselves arrived via a guest
// link; link management is never reachable from inside a link.
func requireDirectCaller(w http.ResponseWriter, r *http.Request) (*middleware.Caller, bool) {
	caller := middleware.MustGetCaller(r.Context())
	if caller.ViaGuestLink() {
		WriteError(w, model.ErrPermissionDenied)
		return nil, false
	}
	return caller, true
}

// Create handles POST /api/lists/{id}/links
func (h *GuestLinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireDirectCaller(w, r)
	if !ok {
		return
	}
	listID := model.ListID(mux.Vars(r)["id"])

	var req request.CreateGuestLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// All fields are optional; an empty body is a plain open link
		req = request.CreateGuestLinkRequest{}
	}

	link, err := h.guestLinkService.Create(r.Context(), listID, caller.Handle, guestlink.CreateParams{
		Name:             req.Name,
		GuestDisplayName: req.GuestDisplayName,
		Password:         req.Password,
		ExpiresInDays:    req.ExpiresInDays,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GuestLinkFromModel(link, h.clock.NowMillis()))
}

// List handles GET /api/lists/{id}/links
func (h *GuestLinkHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireDirectCaller(w, r)
	if !ok {
		return
	}
	listID := model.ListID(mux.Vars(r)["id"])

	links, err := h.guestLinkService.Links(r.Context(), listID, caller.Handle)
	if err != nil {
		WriteError(w, err)
		return
	}

	now := h.clock.NowMillis()
	resp := make([]response.GuestLinkResponse, len(links))
	for i, link := range links {
		resp[i] = response.GuestLinkFromModel(link, now)
	}

	response.JSON(w, http.StatusOK, resp)
}

// Edit handles PUT /api/links/{link_id}
func (h *GuestLinkHandler) Edit(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireDirectCaller(w, r)
	if !ok {
		return
	}
	linkID := model.GuestLinkID(mux.Vars(r)["link_id"])

	var req request.EditGuestLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	link, err := h.guestLinkService.Edit(r.Context(), linkID, caller.Handle, guestlink.EditParams{
		Name:             req.Name,
		GuestDisplayName: req.GuestDisplayName,
		Password:         req.Password,
		ExpiresInDays:    req.ExpiresInDays,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuestLinkFromModel(link, h.clock.NowMillis()))
}

// Toggle handles PUT /api/links/{link_id}/disabled
func (h *GuestLinkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireDirectCaller(w, r)
	if !ok {
		return
	}
	linkID := model.GuestLinkID(mux.Vars(r)["link_id"])

	var req request.ToggleGuestLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.guestLinkService.ToggleDisabled(r.Context(), linkID, caller.Handle, req.Disabled); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Revoke handles DELETE /api/links/{link_id}
// Revocation deletes the record outright, so it can never be re-enabled.
func (h *GuestLinkHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireDirectCaller(w, r)
	if !ok {
		return
	}
	linkID := model.GuestLinkID(mux.Vars(r)["link_id"])

	if err := h.guestLinkService.Revoke(r.Context(), linkID, caller.Handle); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Enter handles POST /api/links/{link_id}/enter
// This is the guest entry point: it validates the link, checks its
// password if it has one, and tells the guest which list they may join.
func (h *GuestLinkHandler) Enter(w http.ResponseWriter, r *http.Request) {
	linkID := model.GuestLinkID(mux.Vars(r)["link_id"])

	var req request.GuestPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = request.GuestPasswordRequest{}
	}

	listID, err := h.guestLinkService.Validate(r.Context(), linkID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.guestLinkService.VerifyPassword(r.Context(), linkID, req.Password); err != nil {
		WriteError(w, err)
		return
	}

	link, err := h.guestLinkService.Get(r.Context(), linkID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuestEntryResponse{
		ListID:           string(listID),
		Role:             string(model.RoleGuest),
		GuestDisplayName: link.GuestDisplayName,
		PasswordRequired: link.Password != "",
	})
}
