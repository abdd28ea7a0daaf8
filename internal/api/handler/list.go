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
	"github.com/mcoot/sharedlist-go/internal/services/list"
)

// ListHandler handles list lifecycle endpoints
type ListHandler struct {
	listService   *list.Service
	accessService *access.Service
}

// NewListHandler creates a new list handler
func NewListHandler(listService *list.Service, accessService *access.Service) *ListHandler {
	return &ListHandler{
		listService:   listService,
		accessService: accessService,
	}
}

// Create handles POST /api/lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body: a random readable id and no metadata
		req = request.CreateListRequest{}
	}

	meta := model.ListMetadata{Name: req.Name, Description: req.Description}
	id, err := h.listService.Create(r.Context(), req.PreferredID, meta)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ListFromModel(id, meta))
}

// Get handles GET /api/lists/{id}
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ListID(mux.Vars(r)["id"])

	meta, err := h.listService.Metadata(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ListFromModel(id, meta))
}

// UpdateMetadata handles PATCH /api/lists/{id}
func (h *ListHandler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	if caller.ViaGuestLink() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}
	id := model.ListID(mux.Vars(r)["id"])

	var req request.UpdateMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	meta := model.ListMetadata{Name: req.Name, Description: req.Description}
	if err := h.accessService.UpdateMetadata(r.Context(), id, caller.Handle, meta); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ListFromModel(id, meta))
}
