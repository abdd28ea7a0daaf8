package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sharedlist-go/internal/api"
	"github.com/mcoot/sharedlist-go/internal/api/apierr"
	"github.com/mcoot/sharedlist-go/internal/api/response"
	"github.com/mcoot/sharedlist-go/internal/factory"
)

// testServer exercises the full router over in-memory storage
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		Clock:            app.Clock,
		ListService:      app.ListService,
		TodoService:      app.TodoService,
		PresenceService:  app.PresenceService,
		AccessService:    app.AccessService,
		GuestLinkService: app.GuestLinkService,
	})

	return &testServer{handler: router}
}

type reqOpts struct {
	handle    string
	name      string
	guestLink string
}

func (ts *testServer) request(t *testing.T, method, path string, body any, opts reqOpts) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if opts.handle != "" {
		req.Header.Set("X-Participant-Handle", opts.handle)
	}
	if opts.name != "" {
		req.Header.Set("X-Participant-Name", opts.name)
	}
	if opts.guestLink != "" {
		req.Header.Set("X-Guest-Link", opts.guestLink)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rec).Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/health", nil, reqOpts{})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityRequired(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPost, "/api/lists", nil, reqOpts{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
}

func TestListLifecycle(t *testing.T) {
	ts := newTestServer(t)
	alice := reqOpts{handle: "p_alice", name: "Alice"}

	// Create with a preferred readable id
	rec := ts.request(t, http.MethodPost, "/api/lists", map[string]any{
		"preferred_id": "picnic-prep-list",
		"name":         "Picnic prep",
	}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[response.ListResponse](t, rec)
	assert.Equal(t, "picnic-prep-list", created.ID)
	assert.Equal(t, "Picnic prep", created.Name)

	// Fetch it back
	rec = ts.request(t, http.MethodGet, "/api/lists/picnic-prep-list", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same id again conflicts
	rec = ts.request(t, http.MethodPost, "/api/lists", map[string]any{
		"preferred_id": "picnic-prep-list",
	}, alice)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "LIST_EXISTS", errorCode(t, rec))

	// Malformed id is rejected before any storage write
	rec = ts.request(t, http.MethodPost, "/api/lists", map[string]any{
		"preferred_id": "no spaces allowed",
	}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_LIST_ID", errorCode(t, rec))

	// Unknown list is a 404
	rec = ts.request(t, http.MethodGet, "/api/lists/never-created-list", nil, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Empty body gets a random readable id
	rec = ts.request(t, http.MethodPost, "/api/lists", nil, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	allocated := decode[response.ListResponse](t, rec)
	assert.NotEmpty(t, allocated.ID)
}

func TestTodoLifecycle(t *testing.T) {
	ts := newTestServer(t)
	alice := reqOpts{handle: "p_alice", name: "Alice"}

	rec := ts.request(t, http.MethodPost, "/api/lists", map[string]any{"preferred_id": "todo-flow-list"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Add
	rec = ts.request(t, http.MethodPost, "/api/lists/todo-flow-list/todos", map[string]any{"text": "buy bread"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[response.TodoResponse](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "buy bread", created.Text)
	assert.Equal(t, "p_alice", created.CreatedBy)

	// Blank text is rejected
	rec = ts.request(t, http.MethodPost, "/api/lists/todo-flow-list/todos", map[string]any{"text": "   "}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMPTY_TODO_TEXT", errorCode(t, rec))

	// Complete it
	rec = ts.request(t, http.MethodPut, "/api/lists/todo-flow-list/todos/"+created.ID+"/completed",
		map[string]any{"completed": true}, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/todo-flow-list/todos", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[response.TodoSnapshotResponse](t, rec)
	require.Len(t, snapshot.Active, 1)
	assert.True(t, snapshot.Active[0].Completed)
	require.NotNil(t, snapshot.Active[0].CompletedBy)
	assert.Equal(t, "p_alice", *snapshot.Active[0].CompletedBy)

	// Edit text
	rec = ts.request(t, http.MethodPut, "/api/lists/todo-flow-list/todos/"+created.ID,
		map[string]any{"text": "buy sourdough"}, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Soft delete moves it to trash
	rec = ts.request(t, http.MethodDelete, "/api/lists/todo-flow-list/todos/"+created.ID, nil, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/todo-flow-list/todos", nil, alice)
	snapshot = decode[response.TodoSnapshotResponse](t, rec)
	assert.Empty(t, snapshot.Active)
	require.Len(t, snapshot.Trash, 1)
	assert.Equal(t, "buy sourdough", snapshot.Trash[0].Text)

	// Restore brings it back
	rec = ts.request(t, http.MethodPost, "/api/lists/todo-flow-list/todos/"+created.ID+"/restore", nil, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/todo-flow-list/todos", nil, alice)
	snapshot = decode[response.TodoSnapshotResponse](t, rec)
	require.Len(t, snapshot.Active, 1)
	assert.Empty(t, snapshot.Trash)

	// Purge removes it permanently
	rec = ts.request(t, http.MethodDelete, "/api/lists/todo-flow-list/todos/"+created.ID+"/purge", nil, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/todo-flow-list/todos", nil, alice)
	snapshot = decode[response.TodoSnapshotResponse](t, rec)
	assert.Empty(t, snapshot.Active)
	assert.Empty(t, snapshot.Trash)
}

func TestAdminClaimAndPasswords(t *testing.T) {
	ts := newTestServer(t)
	alice := reqOpts{handle: "p_alice", name: "Alice"}
	bob := reqOpts{handle: "p_bob", name: "Bob"}

	rec := ts.request(t, http.MethodPost, "/api/lists", map[string]any{"preferred_id": "admin-flow-list"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Fresh list: everyone is normal
	rec = ts.request(t, http.MethodGet, "/api/lists/admin-flow-list/role", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "normal", decode[response.RoleResponse](t, rec).Role)

	// First claim needs no password
	rec = ts.request(t, http.MethodPost, "/api/lists/admin-flow-list/admin/claim", nil, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/admin-flow-list/role", nil, alice)
	assert.Equal(t, "admin", decode[response.RoleResponse](t, rec).Role)

	// Without an admin password set, further claims are still open
	rec = ts.request(t, http.MethodPost, "/api/lists/admin-flow-list/admin/claim", nil, bob)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Alice gates the admin tier
	rec = ts.request(t, http.MethodPut, "/api/lists/admin-flow-list/passwords",
		map[string]any{"tier": "admin", "password": "hunter2"}, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/admin-flow-list/passwords", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	settings := decode[response.PasswordSettingsResponse](t, rec)
	assert.True(t, settings.AdminPasswordEnabled)
	assert.False(t, settings.NormalPasswordEnabled)

	// A third participant now needs the password
	carol := reqOpts{handle: "p_carol", name: "Carol"}
	rec = ts.request(t, http.MethodPost, "/api/lists/admin-flow-list/admin/claim",
		map[string]any{"password": "wrong"}, carol)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "WRONG_PASSWORD", errorCode(t, rec))

	rec = ts.request(t, http.MethodPost, "/api/lists/admin-flow-list/admin/claim",
		map[string]any{"password": "hunter2"}, carol)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Non-admins cannot set passwords
	dave := reqOpts{handle: "p_dave", name: "Dave"}
	rec = ts.request(t, http.MethodPut, "/api/lists/admin-flow-list/passwords",
		map[string]any{"tier": "guest", "password": "x"}, dave)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Blank password disables the tier again
	rec = ts.request(t, http.MethodPut, "/api/lists/admin-flow-list/passwords",
		map[string]any{"tier": "admin", "password": ""}, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/admin-flow-list/passwords", nil, alice)
	assert.False(t, decode[response.PasswordSettingsResponse](t, rec).AdminPasswordEnabled)
}

func TestGuestLinkFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := reqOpts{handle: "p_alice", name: "Alice"}

	rec := ts.request(t, http.MethodPost, "/api/lists", map[string]any{"preferred_id": "guest-flow-list"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.request(t, http.MethodPost, "/api/lists/guest-flow-list/admin/claim", nil, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Create a link
	rec = ts.request(t, http.MethodPost, "/api/lists/guest-flow-list/links",
		map[string]any{"name": "for the neighbours"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	link := decode[response.GuestLinkResponse](t, rec)
	require.NotEmpty(t, link.ID)
	assert.Equal(t, "active", link.State)

	// Guest entry resolves the list
	rec = ts.request(t, http.MethodPost, "/api/links/"+link.ID+"/enter", nil, reqOpts{})
	require.Equal(t, http.StatusOK, rec.Code)

	// A guest sees todos but cannot add them
	guest := reqOpts{handle: "p_guest", name: "Guest", guestLink: link.ID}
	rec = ts.request(t, http.MethodGet, "/api/lists/guest-flow-list/todos", nil, guest)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.request(t, http.MethodPost, "/api/lists/guest-flow-list/todos",
		map[string]any{"text": "nope"}, guest)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", errorCode(t, rec))

	// Disabling the link shuts guests out with the uniform message
	rec = ts.request(t, http.MethodPut, "/api/links/"+link.ID+"/disabled",
		map[string]any{"disabled": true}, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodPost, "/api/links/"+link.ID+"/enter", nil, reqOpts{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "INVALID_GUEST_LINK", errorCode(t, rec))

	// Re-enabling restores access
	rec = ts.request(t, http.MethodPut, "/api/links/"+link.ID+"/disabled",
		map[string]any{"disabled": false}, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.request(t, http.MethodPost, "/api/links/"+link.ID+"/enter", nil, reqOpts{})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Revocation is terminal and indistinguishable from never-existed
	rec = ts.request(t, http.MethodDelete, "/api/links/"+link.ID, nil, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.request(t, http.MethodPost, "/api/links/"+link.ID+"/enter", nil, reqOpts{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "INVALID_GUEST_LINK", errorCode(t, rec))
}

func TestGuestUncompleteConfirmation(t *testing.T) {
	ts := newTestServer(t)
	alice := reqOpts{handle: "p_alice", name: "Alice"}

	rec := ts.request(t, http.MethodPost, "/api/lists", map[string]any{"preferred_id": "confirm-flow-list"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.request(t, http.MethodPost, "/api/lists/confirm-flow-list/admin/claim", nil, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.request(t, http.MethodPost, "/api/lists/confirm-flow-list/todos",
		map[string]any{"text": "water the plants"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[response.TodoResponse](t, rec)

	rec = ts.request(t, http.MethodPost, "/api/lists/confirm-flow-list/links", nil, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	link := decode[response.GuestLinkResponse](t, rec)

	guest := reqOpts{handle: "p_guest", name: "Guest", guestLink: link.ID}
	togglePath := "/api/lists/confirm-flow-list/todos/" + created.ID + "/completed"

	// Completing needs no confirmation
	rec = ts.request(t, http.MethodPut, togglePath, map[string]any{"completed": true}, guest)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Un-completing does
	rec = ts.request(t, http.MethodPut, togglePath, map[string]any{"completed": false}, guest)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFIRMATION_REQUIRED", errorCode(t, rec))

	rec = ts.request(t, http.MethodPut, togglePath, map[string]any{"completed": false, "confirmed": true}, guest)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// An admin carrying a guest link header is still pinned to guest
	adminAsGuest := reqOpts{handle: "p_alice", name: "Alice", guestLink: link.ID}
	rec = ts.request(t, http.MethodPost, "/api/lists/confirm-flow-list/todos",
		map[string]any{"text": "still nope"}, adminAsGuest)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPresenceEndpoints(t *testing.T) {
	ts := newTestServer(t)
	alice := reqOpts{handle: "p_alice", name: "Alice"}
	bob := reqOpts{handle: "p_bob", name: "Bob"}

	rec := ts.request(t, http.MethodPost, "/api/lists", map[string]any{"preferred_id": "presence-flow-list"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.request(t, http.MethodPost, "/api/lists/presence-flow-list/presence/heartbeat",
		map[string]any{"display_name": "Alice", "color": "#aabbcc", "is_typing": true}, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.request(t, http.MethodPost, "/api/lists/presence-flow-list/presence/heartbeat",
		map[string]any{"display_name": "Bob"}, bob)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/presence-flow-list/presence", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	views := decode[[]response.PresenceResponse](t, rec)
	require.Len(t, views, 2)

	// The caller sorts first and holds the top of the stack
	assert.Equal(t, "p_alice", views[0].Handle)
	assert.True(t, views[0].IsSelf)
	assert.Equal(t, "online", views[0].Status)
	assert.Equal(t, 1, views[0].StackIndex)
	assert.Equal(t, "p_bob", views[1].Handle)
	assert.Equal(t, 0, views[1].StackIndex)

	// Going away clears transient state
	rec = ts.request(t, http.MethodPost, "/api/lists/presence-flow-list/presence/away", nil, alice)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.request(t, http.MethodGet, "/api/lists/presence-flow-list/presence", nil, alice)
	views = decode[[]response.PresenceResponse](t, rec)
	assert.False(t, views[0].IsTyping)
}
