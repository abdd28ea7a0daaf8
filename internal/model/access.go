package model

// Role is a participant's effective access tier for a list
type Role string

const (
	// RoleGuest is read-and-toggle-only access reached via a guest link;
	// it is never derived from the participant's handle
	RoleGuest Role = "guest"
	// RoleNormal is full todo CRUD access
	RoleNormal Role = "normal"
	// RoleAdmin additionally manages sharing, passwords and guest links
	RoleAdmin Role = "admin"
)

// CanEdit reports whether the role may create, edit or delete todos
func (r Role) CanEdit() bool {
	return r == RoleNormal || r == RoleAdmin
}

// CanManage reports whether the role may manage sharing and passwords
func (r Role) CanManage() bool {
	return r == RoleAdmin
}

// Admin records a participant's claim on the admin role for a list.
// Write-once: admins are never mutated, and demotion is not implemented.
type Admin struct {
	Handle      ParticipantHandle
	ListID      ListID
	DisplayName string
	ClaimedAt   int64
}

// PasswordTier names one of the three independent password gates
type PasswordTier string

const (
	TierAdmin  PasswordTier = "admin"
	TierNormal PasswordTier = "normal"
	TierGuest  PasswordTier = "guest"
)

// ValidTier reports whether s names a known password tier
func ValidTier(s string) bool {
	switch PasswordTier(s) {
	case TierAdmin, TierNormal, TierGuest:
		return true
	}
	return false
}

// EnabledModes records which password tiers are currently active
type EnabledModes struct {
	AdminPasswordEnabled  bool
	NormalPasswordEnabled bool
	GuestPasswordEnabled  bool
}

// PasswordSettings holds a list's tiered password gates. Passwords are
// stored and compared as plaintext; this is a documented weak-security
// design choice for a no-accounts system, not an oversight.
//
// A tier gates access iff its enabled flag is true; the stored password is
// meaningless while the flag is false.
type PasswordSettings struct {
	AdminPassword  string
	NormalPassword string
	GuestPassword  string
	EnabledModes   EnabledModes
}

// Password returns the stored password for a tier
func (p PasswordSettings) Password(tier PasswordTier) string {
	switch tier {
	case TierAdmin:
		return p.AdminPassword
	case TierNormal:
		return p.NormalPassword
	case TierGuest:
		return p.GuestPassword
	}
	return ""
}

// Enabled reports whether a tier's gate is active
func (p PasswordSettings) Enabled(tier PasswordTier) bool {
	switch tier {
	case TierAdmin:
		return p.EnabledModes.AdminPasswordEnabled
	case TierNormal:
		return p.EnabledModes.NormalPasswordEnabled
	case TierGuest:
		return p.EnabledModes.GuestPasswordEnabled
	}
	return false
}
