package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sharedlist-go/internal/api/handler"
	"github.com/mcoot/sharedlist-go/internal/api/middleware"
	"github.com/mcoot/sharedlist-go/internal/dependencies/clock"
	"github.com/mcoot/sharedlist-go/internal/services/access"
	"github.com/mcoot/sharedlist-go/internal/services/guestlink"
	"github.com/mcoot/sharedlist-go/internal/services/list"
	"github.com/mcoot/sharedlist-go/internal/services/presence"
	"github.com/mcoot/sharedlist-go/internal/services/todo"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	Clock            clock.Clock
	ListService      *list.Service
	TodoService      *todo.Service
	PresenceService  *presence.Service
	AccessService    *access.Service
	GuestLinkService *guestlink.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	listHandler := handler.NewListHandler(cfg.ListService, cfg.AccessService)
	todoHandler := handler.NewTodoHandler(cfg.TodoService, cfg.AccessService, cfg.GuestLinkService)
	presenceHandler := handler.NewPresenceHandler(cfg.PresenceService)
	accessHandler := handler.NewAccessHandler(cfg.AccessService, cfg.GuestLinkService)
	guestLinkHandler := handler.NewGuestLinkHandler(cfg.GuestLinkService, cfg.ListService, cfg.Clock)
	eventsHandler := handler.NewEventsHandler(cfg.TodoService, cfg.PresenceService, cfg.AccessService, cfg.GuestLinkService)

	// Create middleware
	identityMiddleware := middleware.Identity()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Guest entry needs no identity: the link itself is the credential
	api.HandleFunc("/links/{link_id}/enter", guestLinkHandler.Enter).Methods(http.MethodPost)

	// Everything else requires a participant handle
	authed := api.NewRoute().Subrouter()
	authed.Use(identityMiddleware)

	// List lifecycle
	authed.HandleFunc("/lists", listHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/lists/{id}", listHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/lists/{id}", listHandler.UpdateMetadata).Methods(http.MethodPatch)

	// Todos
	authed.HandleFunc("/lists/{id}/todos", todoHandler.Snapshot).Methods(http.MethodGet)
	authed.HandleFunc("/lists/{id}/todos", todoHandler.Add).Methods(http.MethodPost)
	authed.HandleFunc("/lists/{id}/todos/purge", todoHandler.PurgeAll).Methods(http.MethodPost)
	authed.HandleFunc("/lists/{id}/todos/{todo_id}", todoHandler.Edit).Methods(http.MethodPut)
	authed.HandleFunc("/lists/{id}/todos/{todo_id}", todoHandler.Delete).Methods(http.MethodDelete)
	authed.HandleFunc("/lists/{id}/todos/{todo_id}/completed", todoHandler.Toggle).Methods(http.MethodPut)
	authed.HandleFunc("/lists/{id}/todos/{todo_id}/restore", todoHandler.Restore).Methods(http.MethodPost)
	authed.HandleFunc("/lists/{id}/todos/{todo_id}/purge", todoHandler.Purge).Methods(http.MethodDelete)

	// Presence
	authed.HandleFunc("/lists/{id}/presence", presenceHandler.Snapshot).Methods(http.MethodGet)
	authed.HandleFunc("/lists/{id}/presence/roster", presenceHandler.Roster).Methods(http.MethodGet)
	authed.HandleFunc("/lists/{id}/presence/heartbeat", presenceHandler.Heartbeat).Methods(http.MethodPost)
	authed.HandleFunc("/lists/{id}/presence/away", presenceHandler.Away).Methods(http.MethodPost)

	// Roles, admins and passwords
	authed.HandleFunc("/lists/{id}/role", accessHandler.Role).Methods(http.MethodGet)
	authed.HandleFunc("/lists/{id}/admin", accessHandler.Admins).Methods(http.MethodGet)
	authed.HandleFunc("/lists/{id}/admin/claim", accessHandler.ClaimAdmin).Methods(http.MethodPost)
	authed.HandleFunc("/lists/{id}/passwords", accessHandler.PasswordSettings).Methods(http.MethodGet)
	authed.HandleFunc("/lists/{id}/passwords", accessHandler.SetPassword).Methods(http.MethodPut)
	authed.HandleFunc("/lists/{id}/passwords/verify", accessHandler.VerifyPassword).Methods(http.MethodPost)

	// Guest links
	authed.HandleFunc("/lists/{id}/links", guestLinkHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/lists/{id}/links", guestLinkHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/links/{link_id}", guestLinkHandler.Edit).Methods(http.MethodPut)
	authed.HandleFunc("/links/{link_id}", guestLinkHandler.Revoke).Methods(http.MethodDelete)
	authed.HandleFunc("/links/{link_id}/disabled", guestLinkHandler.Toggle).Methods(http.MethodPut)

	// Live updates
	authed.HandleFunc("/lists/{id}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint (no identity)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
