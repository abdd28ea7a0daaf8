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
	"github.com/mcoot/sharedlist-go/internal/services/todo"
)

// TodoHandler handles todo endpoints
type TodoHandler struct {
	todoService      *todo.Service
	accessService    *access.Service
	guestLinkService *guestlink.Service
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService *todo.Service, accessService *access.Service, guestLinkService *guestlink.Service) *TodoHandler {
	return &TodoHandler{
		todoService:      todoService,
		accessService:    accessService,
		guestLinkService: guestLinkService,
	}
}

func (h *TodoHandler) callerRole(r *http.Request, listID model.ListID) (model.Role, error) {
	caller := middleware.MustGetCaller(r.Context())
	return resolveRole(r.Context(), h.accessService, h.guestLinkService, listID, caller)
}

func (h *TodoHandler) author(r *http.Request) todo.Author {
	caller := middleware.MustGetCaller(r.Context())
	return todo.Author{Handle: caller.Handle, Name: caller.DisplayName}
}

// Snapshot handles GET /api/lists/{id}/todos
func (h *TodoHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	listID := model.ListID(mux.Vars(r)["id"])

	if _, err := h.callerRole(r, listID); err != nil {
		WriteError(w, err)
		return
	}

	snapshot, err := h.todoService.Snapshot(r.Context(), listID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snapshot))
}

// Add handles POST /api/lists/{id}/todos
func (h *TodoHandler) Add(w http.ResponseWriter, r *http.Request) {
	listID := model.ListID(mux.Vars(r)["id"])

	role, err := h.callerRole(r, listID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !role.CanEdit() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}

	var req request.AddTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.todoService.Add(r.Context(), listID, req.Text, h.author(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TodoFromModel(created))
}

// Toggle handles PUT /api/lists/{id}/todos/{todo_id}/completed
// Any role may toggle, but a guest un-completing someone's item must
// confirm first since that is the most destructive action a guest has.
func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	listID := model.ListID(vars["id"])
	todoID := model.TodoID(vars["todo_id"])

	role, err := h.callerRole(r, listID)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.ToggleTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if todo.RequiresConfirmation(role, req.Completed) && !req.Confirmed {
		WriteError(w, NewConfirmationRequiredError())
		return
	}

	if err := h.todoService.Toggle(r.Context(), listID, todoID, req.Completed, h.author(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Edit handles PUT /api/lists/{id}/todos/{todo_id}
func (h *TodoHandler) Edit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	listID := model.ListID(vars["id"])
	todoID := model.TodoID(vars["todo_id"])

	role, err := h.callerRole(r, listID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !role.CanEdit() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}

	var req request.EditTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.todoService.Edit(r.Context(), listID, todoID, req.Text, h.author(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /api/lists/{id}/todos/{todo_id}
// This is a soft delete; the item moves to the trash view.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	listID := model.ListID(vars["id"])
	todoID := model.TodoID(vars["todo_id"])

	role, err := h.callerRole(r, listID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !role.CanEdit() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}

	if err := h.todoService.SoftDelete(r.Context(), listID, todoID, h.author(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Restore handles POST /api/lists/{id}/todos/{todo_id}/restore
func (h *TodoHandler) Restore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	listID := model.ListID(vars["id"])
	todoID := model.TodoID(vars["todo_id"])

	role, err := h.callerRole(r, listID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !role.CanEdit() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}

	if err := h.todoService.Restore(r.Context(), listID, todoID, h.author(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Purge handles DELETE /api/lists/{id}/todos/{todo_id}/purge
func (h *TodoHandler) Purge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	listID := model.ListID(vars["id"])
	todoID := model.TodoID(vars["todo_id"])

	role, err := h.callerRole(r, listID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !role.CanEdit() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}

	if err := h.todoService.Purge(r.Context(), listID, todoID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// PurgeAll handles POST /api/lists/{id}/todos/purge
func (h *TodoHandler) PurgeAll(w http.ResponseWriter, r *http.Request) {
	listID := model.ListID(mux.Vars(r)["id"])

	role, err := h.callerRole(r, listID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !role.CanEdit() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}

	var req request.PurgeAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	ids := make([]model.TodoID, len(req.IDs))
	for i, id := range req.IDs {
		ids[i] = model.TodoID(id)
	}

	if err := h.todoService.PurgeAll(r.Context(), listID, ids); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
