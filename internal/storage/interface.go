package storage

import (
	"context"

	"github.com/mcoot/sharedlist-go/internal/model"
)

// WatchScope names a list subtree that can be watched for changes
type WatchScope string

const (
	ScopeTodos    WatchScope = "todos"
	ScopePresence WatchScope = "presence"
)

// ChangeEvent is a notification that something under a watched subtree
// changed. It carries the key that changed, not the new value: watchers
// re-read and reconcile, so delivery order across different keys does not
// matter and a coalesced or duplicated event is harmless.
type ChangeEvent struct {
	ListID model.ListID
	Scope  WatchScope
	Key    string
}

// Storage defines the interface for the replicated store.
//
// Every method is a point read or point write against a single entity;
// there are no multi-entity transactions. Derived invariants (roles, link
// validity, presence status) are re-verified by callers on every read.
type Storage interface {
	// ServerNow returns the store's clock as epoch milliseconds. All
	// persisted timestamps use this clock, never the client's, so that
	// threshold comparisons (presence aging, link expiry) are immune to
	// client clock skew.
	ServerNow(ctx context.Context) (int64, error)

	// List operations
	CreateList(ctx context.Context, id model.ListID, meta model.ListMetadata) error
	ListExists(ctx context.Context, id model.ListID) (bool, error)
	GetListMetadata(ctx context.Context, id model.ListID) (model.ListMetadata, error)
	SaveListMetadata(ctx context.Context, id model.ListID, meta model.ListMetadata) error

	// Todo operations. SaveTodo writes a whole record and is reserved for
	// creation; mutations go through UpdateTodo, which sets and clears
	// exactly the named fields so concurrent updates to different field
	// groups of one record do not overwrite each other.
	SaveTodo(ctx context.Context, todo *model.Todo) error
	UpdateTodo(ctx context.Context, listID model.ListID, id model.TodoID, set map[TodoField]string, clear []TodoField) error
	GetTodo(ctx context.Context, listID model.ListID, id model.TodoID) (*model.Todo, error)
	DeleteTodo(ctx context.Context, listID model.ListID, id model.TodoID) error
	ListTodos(ctx context.Context, listID model.ListID) ([]*model.Todo, error)

	// Presence operations
	SavePresence(ctx context.Context, p *model.Presence) error
	ListPresence(ctx context.Context, listID model.ListID) ([]*model.Presence, error)

	// Admin operations
	SaveAdmin(ctx context.Context, admin *model.Admin) error
	ListAdmins(ctx context.Context, listID model.ListID) ([]*model.Admin, error)

	// Password operations. SetTierPassword updates exactly one tier's
	// password value and enabled flag as two sequential point writes;
	// a reader mid-sequence can observe a transient mixed state. That
	// window is part of the design, not a bug to close.
	GetPasswordSettings(ctx context.Context, listID model.ListID) (model.PasswordSettings, error)
	SetTierPassword(ctx context.Context, listID model.ListID, tier model.PasswordTier, password string, enabled bool) error

	// Guest link operations. Links are addressable globally by id (the
	// guest entry path knows only the link id) and enumerable per list
	// (the admin sharing view).
	SaveGuestLink(ctx context.Context, link *model.GuestLink) error
	GetGuestLink(ctx context.Context, id model.GuestLinkID) (*model.GuestLink, error)
	ListGuestLinks(ctx context.Context, listID model.ListID) ([]*model.GuestLink, error)
	DeleteGuestLink(ctx context.Context, id model.GuestLinkID) error

	// Watch subscribes to change notifications for a list subtree. The
	// returned channel closes when ctx is canceled; callers must cancel
	// on teardown or they leak a live listener.
	Watch(ctx context.Context, listID model.ListID, scope WatchScope) (<-chan ChangeEvent, error)
}
