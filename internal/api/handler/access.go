package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sharedlist-go/internal/api/middleware"
	"github.com/mcoot/sharedlist-go/internal/api/request"
	"github.com/mcoot/sharedlist-go/internal/api/response"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/access"
	"github.com/mcoot/sharedlist-go/internal/services/guestlink"
)

// AccessHandler handles role, admin and password endpoints
type AccessHandler struct {
	accessService    *access.Service
	guestLinkService *guestlink.Service
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(accessService *access.Service, guestLinkService *guestlink.Service) *AccessHandler {
	return &AccessHandler{
		accessService:    accessService,
		guestLinkService: guestLinkService,
	}
}

// Role handles GET /api/lists/{id}/role
func (h *AccessHandler) Role(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	listID := model.ListID(mux.Vars(r)["id"])

	role, err := resolveRole(r.Context(), h.accessService, h.guestLinkService, listID, caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoleResponse{Role: string(role)})
}

// ClaimAdmin handles POST /api/lists/{id}/admin/claim
func (h *AccessHandler) ClaimAdmin(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	if caller.ViaGuestLink() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}
	listID := model.ListID(mux.Vars(r)["id"])

	var req request.ClaimAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// The first claim on a fresh list needs no password or body
		req = request.ClaimAdminRequest{}
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = caller.DisplayName
	}

	admin, err := h.accessService.ClaimAdmin(r.Context(), listID, caller.Handle, displayName, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AdminFromModel(admin))
}

// Admins handles GET /api/lists/{id}/admin
func (h *AccessHandler) Admins(w http.ResponseWriter, r *http.Request) {
	listID := model.ListID(mux.Vars(r)["id"])

	admins, err := h.accessService.Admins(r.Context(), listID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.AdminResponse, len(admins))
	for i, a := range admins {
		resp[i] = response.AdminFromModel(a)
	}

	response.JSON(w, http.StatusOK, resp)
}

// SetPassword handles PUT /api/lists/{id}/passwords
func (h *AccessHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	if caller.ViaGuestLink() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}
	listID := model.ListID(mux.Vars(r)["id"])

	role, err := h.accessService.ResolveRole(r.Context(), listID, caller.Handle)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !role.CanManage() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}

	var req request.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.accessService.SetPassword(r.Context(), listID, model.PasswordTier(req.Tier), req.Password); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// VerifyPassword handles POST /api/lists/{id}/passwords/verify
func (h *AccessHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	listID := model.ListID(mux.Vars(r)["id"])

	var req request.VerifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.accessService.VerifyPassword(r.Context(), listID, model.PasswordTier(req.Tier), req.Password); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// PasswordSettings handles GET /api/lists/{id}/passwords
// Only the enabled flags are reported; password values stay server side.
func (h *AccessHandler) PasswordSettings(w http.ResponseWriter, r *http.Request) {
	listID := model.ListID(mux.Vars(r)["id"])

	settings, err := h.accessService.PasswordSettings(r.Context(), listID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PasswordSettingsFromModel(settings))
}
