package request

// CreateListRequest creates a list, optionally with a preferred readable id
type CreateListRequest struct {
	PreferredID string `json:"preferred_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateMetadataRequest changes a list's display name or description
type UpdateMetadataRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddTodoRequest adds a todo item
type AddTodoRequest struct {
	Text string `json:"text"`
}

// ToggleTodoRequest sets a todo's completion state. Confirmed acknowledges
// the guest un-complete confirmation prompt.
type ToggleTodoRequest struct {
	Completed bool `json:"completed"`
	Confirmed bool `json:"confirmed,omitempty"`
}

// EditTodoRequest rewrites a todo's text
type EditTodoRequest struct {
	Text string `json:"text"`
}

// PurgeAllRequest permanently removes the given todos
type PurgeAllRequest struct {
	IDs []string `json:"ids"`
}

// HeartbeatRequest refreshes the caller's presence record
type HeartbeatRequest struct {
	DisplayName string  `json:"display_name"`
	Color       string  `json:"color,omitempty"`
	IsTyping    bool    `json:"is_typing,omitempty"`
	EditingTodo *string `json:"editing_todo,omitempty"`
}

// ClaimAdminRequest claims admin on a list
type ClaimAdminRequest struct {
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// SetPasswordRequest sets or clears a tier password. A blank password
// disables the tier.
type SetPasswordRequest struct {
	Tier     string `json:"tier"`
	Password string `json:"password"`
}

// VerifyPasswordRequest checks a password against a tier
type VerifyPasswordRequest struct {
	Tier     string `json:"tier"`
	Password string `json:"password"`
}

// CreateGuestLinkRequest creates a guest link
type CreateGuestLinkRequest struct {
	Name             string `json:"name,omitempty"`
	GuestDisplayName string `json:"guest_display_name,omitempty"`
	Password         string `json:"password,omitempty"`
	ExpiresInDays    *int   `json:"expires_in_days,omitempty"`
}

// EditGuestLinkRequest overwrites a guest link's settings
type EditGuestLinkRequest struct {
	Name             string `json:"name,omitempty"`
	GuestDisplayName string `json:"guest_display_name,omitempty"`
	Password         string `json:"password,omitempty"`
	ExpiresInDays    *int   `json:"expires_in_days,omitempty"`
}

// ToggleGuestLinkRequest enables or disables a guest link
type ToggleGuestLinkRequest struct {
	Disabled bool `json:"disabled"`
}

// GuestPasswordRequest supplies the password for a password-gated guest link
type GuestPasswordRequest struct {
	Password string `json:"password"`
}
