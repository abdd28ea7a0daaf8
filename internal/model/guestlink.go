package model

// GuestLinkID is a human-readable identifier for a guest link
type GuestLinkID string

// GuestLinkState classifies a link's lifecycle. Expired and Disabled are
// soft states a link can leave again; Revoked is terminal (the record is
// removed from the store and must never be resurrected).
type GuestLinkState string

const (
	LinkActive   GuestLinkState = "active"
	LinkExpired  GuestLinkState = "expired"
	LinkDisabled GuestLinkState = "disabled"
	LinkRevoked  GuestLinkState = "revoked"
)

// GuestLink is a capability record granting read+toggle access to one list
// without an account. LastAccessAt and AccessCount are advisory telemetry
// only, incremented best-effort on validation; lost updates under
// concurrent guest access are acceptable.
type GuestLink struct {
	ID        GuestLinkID
	ListID    ListID
	CreatedBy ParticipantHandle
	CreatedAt int64
	Revoked   bool

	Name             string
	GuestDisplayName string
	Password         string
	ExpiresAt        *int64
	Disabled         bool

	LastAccessAt *int64
	AccessCount  int
	UpdatedAt    *int64
}

// State resolves the link's lifecycle state at the given time.
// Disabled takes precedence over Expired in reporting, but callers must
// treat every non-active state uniformly when denying a guest.
func (g *GuestLink) State(nowMillis int64) GuestLinkState {
	if g.Revoked {
		return LinkRevoked
	}
	if g.Disabled {
		return LinkDisabled
	}
	if g.ExpiresAt != nil && *g.ExpiresAt <= nowMillis {
		return LinkExpired
	}
	return LinkActive
}

// Usable reports whether the link currently grants access
func (g *GuestLink) Usable(nowMillis int64) bool {
	return g.State(nowMillis) == LinkActive
}
