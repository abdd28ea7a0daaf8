package model

// ParticipantHandle is an opaque per-browser-profile pseudo-identity.
// It is stable for the lifetime of a local profile but is not a verified
// account; a fresh profile receives a fresh handle.
type ParticipantHandle string

// PresenceStatus classifies a participant's liveness, derived purely from
// the age of their last heartbeat. There is no explicit online/offline flag
// anywhere in the store: unload events are not guaranteed to fire, so
// status is always recomputed from LastSeenAt.
type PresenceStatus string

const (
	StatusOnline   PresenceStatus = "online"
	StatusInactive PresenceStatus = "inactive"
	StatusOffline  PresenceStatus = "offline"
)

// Presence is a participant's liveness record within a list, keyed by
// handle. A participant only ever writes its own record; records are
// refreshed by heartbeats and age out rather than being deleted.
type Presence struct {
	Handle      ParticipantHandle
	ListID      ListID
	DisplayName string
	Color       string
	LastSeenAt  int64
	IsTyping    bool
	EditingTodo *TodoID
}

// PresenceView is a Presence decorated with its computed status and a
// stable stacking index for rendering
type PresenceView struct {
	Presence
	Status     PresenceStatus
	IsSelf     bool
	StackIndex int
}
