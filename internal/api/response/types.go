package response

import (
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/todo"
)

// ListResponse describes a list
type ListResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListFromModel converts list metadata to a response
func ListFromModel(id model.ListID, meta model.ListMetadata) ListResponse {
	return ListResponse{
		ID:          string(id),
		Name:        meta.DisplayName(id),
		Description: meta.Description,
	}
}

// TodoResponse describes a todo item
type TodoResponse struct {
	ID              string  `json:"id"`
	Text            string  `json:"text"`
	Completed       bool    `json:"completed"`
	CreatedAt       int64   `json:"created_at"`
	CreatedBy       string  `json:"created_by"`
	CreatorName     string  `json:"creator_name,omitempty"`
	CompletedAt     *int64  `json:"completed_at,omitempty"`
	CompletedBy     *string `json:"completed_by,omitempty"`
	CompletedByName *string `json:"completed_by_name,omitempty"`
	UpdatedAt       *int64  `json:"updated_at,omitempty"`
	UpdatedBy       *string `json:"updated_by,omitempty"`
	DeletedAt       *int64  `json:"deleted_at,omitempty"`
	DeletedBy       *string `json:"deleted_by,omitempty"`
	RestoredAt      *int64  `json:"restored_at,omitempty"`
	RestoredBy      *string `json:"restored_by,omitempty"`
}

// TodoFromModel converts a todo to a response
func TodoFromModel(t *model.Todo) TodoResponse {
	return TodoResponse{
		ID:              string(t.ID),
		Text:            t.Text,
		Completed:       t.Completed,
		CreatedAt:       t.CreatedAt,
		CreatedBy:       string(t.CreatedBy),
		CreatorName:     t.CreatorName,
		CompletedAt:     t.CompletedAt,
		CompletedBy:     handleString(t.CompletedBy),
		CompletedByName: t.CompletedByName,
		UpdatedAt:       t.UpdatedAt,
		UpdatedBy:       handleString(t.UpdatedBy),
		DeletedAt:       t.DeletedAt,
		DeletedBy:       handleString(t.DeletedBy),
		RestoredAt:      t.RestoredAt,
		RestoredBy:      handleString(t.RestoredBy),
	}
}

// TodoSnapshotResponse is the reconciled todo view
type TodoSnapshotResponse struct {
	Active []TodoResponse `json:"active"`
	Trash  []TodoResponse `json:"trash"`
}

// SnapshotFromModel converts a todo snapshot to a response
func SnapshotFromModel(s *todo.Snapshot) TodoSnapshotResponse {
	resp := TodoSnapshotResponse{
		Active: make([]TodoResponse, len(s.Active)),
		Trash:  make([]TodoResponse, len(s.Trash)),
	}
	for i, t := range s.Active {
		resp.Active[i] = TodoFromModel(t)
	}
	for i, t := range s.Trash {
		resp.Trash[i] = TodoFromModel(t)
	}
	return resp
}

// PresenceResponse describes one participant's presence
type PresenceResponse struct {
	Handle      string  `json:"handle"`
	DisplayName string  `json:"display_name"`
	Color       string  `json:"color,omitempty"`
	LastSeenAt  int64   `json:"last_seen_at"`
	IsTyping    bool    `json:"is_typing,omitempty"`
	EditingTodo *string `json:"editing_todo,omitempty"`
	Status      string  `json:"status"`
	IsSelf      bool    `json:"is_self,omitempty"`
	StackIndex  int     `json:"stack_index"`
}

// PresenceFromModel converts a presence view to a response
func PresenceFromModel(v model.PresenceView) PresenceResponse {
	var editing *string
	if v.EditingTodo != nil {
		s := string(*v.EditingTodo)
		editing = &s
	}
	return PresenceResponse{
		Handle:      string(v.Handle),
		DisplayName: v.DisplayName,
		Color:       v.Color,
		LastSeenAt:  v.LastSeenAt,
		IsTyping:    v.IsTyping,
		EditingTodo: editing,
		Status:      string(v.Status),
		IsSelf:      v.IsSelf,
		StackIndex:  v.StackIndex,
	}
}

// PresenceListFromModel converts a presence snapshot to responses
func PresenceListFromModel(views []model.PresenceView) []PresenceResponse {
	resp := make([]PresenceResponse, len(views))
	for i, v := range views {
		resp[i] = PresenceFromModel(v)
	}
	return resp
}

// RoleResponse reports the caller's effective role
type RoleResponse struct {
	Role string `json:"role"`
}

// AdminResponse describes an admin registration
type AdminResponse struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	ClaimedAt   int64  `json:"claimed_at"`
}

// AdminFromModel converts an admin record to a response
func AdminFromModel(a *model.Admin) AdminResponse {
	return AdminResponse{
		Handle:      string(a.Handle),
		DisplayName: a.DisplayName,
		ClaimedAt:   a.ClaimedAt,
	}
}

// PasswordSettingsResponse reports which tiers are gated. Stored password
// values never leave the server through this response.
type PasswordSettingsResponse struct {
	AdminPasswordEnabled  bool `json:"admin_password_enabled"`
	NormalPasswordEnabled bool `json:"normal_password_enabled"`
	GuestPasswordEnabled  bool `json:"guest_password_enabled"`
}

// PasswordSettingsFromModel converts password settings to a response
func PasswordSettingsFromModel(s model.PasswordSettings) PasswordSettingsResponse {
	return PasswordSettingsResponse{
		AdminPasswordEnabled:  s.EnabledModes.AdminPasswordEnabled,
		NormalPasswordEnabled: s.EnabledModes.NormalPasswordEnabled,
		GuestPasswordEnabled:  s.EnabledModes.GuestPasswordEnabled,
	}
}

// GuestLinkResponse describes a guest link for the admin sharing view
type GuestLinkResponse struct {
	ID               string `json:"id"`
	ListID           string `json:"list_id"`
	CreatedBy        string `json:"created_by"`
	CreatedAt        int64  `json:"created_at"`
	Name             string `json:"name,omitempty"`
	GuestDisplayName string `json:"guest_display_name,omitempty"`
	HasPassword      bool   `json:"has_password"`
	ExpiresAt        *int64 `json:"expires_at,omitempty"`
	Disabled         bool   `json:"disabled"`
	State            string `json:"state"`
	LastAccessAt     *int64 `json:"last_access_at,omitempty"`
	AccessCount      int    `json:"access_count"`
	UpdatedAt        *int64 `json:"updated_at,omitempty"`
}

// GuestLinkFromModel converts a guest link to a response
func GuestLinkFromModel(g *model.GuestLink, nowMillis int64) GuestLinkResponse {
	return GuestLinkResponse{
		ID:               string(g.ID),
		ListID:           string(g.ListID),
		CreatedBy:        string(g.CreatedBy),
		CreatedAt:        g.CreatedAt,
		Name:             g.Name,
		GuestDisplayName: g.GuestDisplayName,
		HasPassword:      g.Password != "",
		ExpiresAt:        g.ExpiresAt,
		Disabled:         g.Disabled,
		State:            string(g.State(nowMillis)),
		LastAccessAt:     g.LastAccessAt,
		AccessCount:      g.AccessCount,
		UpdatedAt:        g.UpdatedAt,
	}
}

// GuestEntryResponse is the outcome of validating a guest link
type GuestEntryResponse struct {
	ListID           string `json:"list_id"`
	Role             string `json:"role"`
	GuestDisplayName string `json:"guest_display_name,omitempty"`
	PasswordRequired bool   `json:"password_required"`
}

func handleString(h *model.ParticipantHandle) *string {
	if h == nil {
		return nil
	}
	s := string(*h)
	return &s
}
