package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case List:
		o.printList(v)
	case TodoSnapshot:
		o.printTodoSnapshot(v)
	case Todo:
		o.printTodo(v, "")
	case []Presence:
		o.printPresence(v)
	case Role:
		fmt.Printf("Role: %s\n", v.Role)
	case []Admin:
		o.printAdmins(v)
	case PasswordSettings:
		o.printPasswordSettings(v)
	case GuestLink:
		o.printGuestLink(v)
	case []GuestLink:
		for i, link := range v {
			if i > 0 {
				fmt.Println()
			}
			o.printGuestLink(link)
		}
	case GuestEntry:
		o.printGuestEntry(v)
	case Profile:
		o.printProfile(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// List response type (matches API)
type List struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Todo response type
type Todo struct {
	ID              string  `json:"id"`
	Text            string  `json:"text"`
	Completed       bool    `json:"completed"`
	CreatedAt       int64   `json:"created_at"`
	CreatedBy       string  `json:"created_by"`
	CreatorName     string  `json:"creator_name,omitempty"`
	CompletedAt     *int64  `json:"completed_at,omitempty"`
	CompletedByName *string `json:"completed_by_name,omitempty"`
	DeletedAt       *int64  `json:"deleted_at,omitempty"`
}

// TodoSnapshot response type
type TodoSnapshot struct {
	Active []Todo `json:"active"`
	Trash  []Todo `json:"trash"`
}

// Presence response type
type Presence struct {
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

// Role response type
type Role struct {
	Role string `json:"role"`
}

// Admin response type
type Admin struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	ClaimedAt   int64  `json:"claimed_at"`
}

// PasswordSettings response type
type PasswordSettings struct {
	AdminPasswordEnabled  bool `json:"admin_password_enabled"`
	NormalPasswordEnabled bool `json:"normal_password_enabled"`
	GuestPasswordEnabled  bool `json:"guest_password_enabled"`
}

// GuestLink response type
type GuestLink struct {
	ID               string `json:"id"`
	ListID           string `json:"list_id"`
	CreatedAt        int64  `json:"created_at"`
	Name             string `json:"name,omitempty"`
	GuestDisplayName string `json:"guest_display_name,omitempty"`
	HasPassword      bool   `json:"has_password"`
	ExpiresAt        *int64 `json:"expires_at,omitempty"`
	Disabled         bool   `json:"disabled"`
	State            string `json:"state"`
	LastAccessAt     *int64 `json:"last_access_at,omitempty"`
	AccessCount      int    `json:"access_count"`
}

// GuestEntry response type
type GuestEntry struct {
	ListID           string `json:"list_id"`
	Role             string `json:"role"`
	GuestDisplayName string `json:"guest_display_name,omitempty"`
	PasswordRequired bool   `json:"password_required"`
}

// Profile is the locally cached participant identity
type Profile struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printList(l List) {
	fmt.Printf("List: %s\n", l.ID)
	fmt.Printf("Name: %s\n", l.Name)
	if l.Description != "" {
		fmt.Printf("Description: %s\n", l.Description)
	}
}

func (o *Output) printTodoSnapshot(s TodoSnapshot) {
	fmt.Printf("Todos (%d):\n", len(s.Active))
	for _, t := range s.Active {
		o.printTodo(t, "  ")
	}
	if len(s.Trash) > 0 {
		fmt.Printf("\nTrash (%d):\n", len(s.Trash))
		for _, t := range s.Trash {
			o.printTodo(t, "  ")
		}
	}
}

func (o *Output) printTodo(t Todo, indent string) {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	fmt.Printf("%s%s %s  (%s)\n", indent, mark, t.Text, t.ID)
	author := t.CreatorName
	if author == "" {
		author = t.CreatedBy
	}
	fmt.Printf("%s    added by %s at %s\n", indent, author, formatMillis(t.CreatedAt))
	if t.Completed && t.CompletedAt != nil {
		by := ""
		if t.CompletedByName != nil {
			by = " by " + *t.CompletedByName
		}
		fmt.Printf("%s    completed%s at %s\n", indent, by, formatMillis(*t.CompletedAt))
	}
	if t.DeletedAt != nil {
		fmt.Printf("%s    deleted at %s\n", indent, formatMillis(*t.DeletedAt))
	}
}

func (o *Output) printPresence(views []Presence) {
	fmt.Printf("Participants (%d):\n", len(views))
	for _, v := range views {
		selfStr := ""
		if v.IsSelf {
			selfStr = " [you]"
		}
		activity := ""
		if v.IsTyping {
			activity = " typing"
		}
		if v.EditingTodo != nil {
			activity = " editing " + *v.EditingTodo
		}
		fmt.Printf("  - %s (%s)%s%s\n", v.DisplayName, v.Status, selfStr, activity)
		fmt.Printf("    last seen %s\n", formatMillis(v.LastSeenAt))
	}
}

func (o *Output) printAdmins(admins []Admin) {
	fmt.Printf("Admins (%d):\n", len(admins))
	for _, a := range admins {
		name := a.DisplayName
		if name == "" {
			name = a.Handle
		}
		fmt.Printf("  - %s, claimed %s\n", name, formatMillis(a.ClaimedAt))
	}
}

func (o *Output) printPasswordSettings(s PasswordSettings) {
	fmt.Printf("Admin password: %s\n", enabledStr(s.AdminPasswordEnabled))
	fmt.Printf("Normal password: %s\n", enabledStr(s.NormalPasswordEnabled))
	fmt.Printf("Guest password: %s\n", enabledStr(s.GuestPasswordEnabled))
}

func (o *Output) printGuestLink(g GuestLink) {
	fmt.Printf("Link: %s\n", g.ID)
	if g.Name != "" {
		fmt.Printf("Name: %s\n", g.Name)
	}
	fmt.Printf("List: %s\n", g.ListID)
	fmt.Printf("State: %s\n", g.State)
	if g.GuestDisplayName != "" {
		fmt.Printf("Guest Name: %s\n", g.GuestDisplayName)
	}
	fmt.Printf("Password: %s\n", enabledStr(g.HasPassword))
	if g.ExpiresAt != nil {
		fmt.Printf("Expires: %s\n", formatMillis(*g.ExpiresAt))
	}
	fmt.Printf("Accesses: %d\n", g.AccessCount)
	if g.LastAccessAt != nil {
		fmt.Printf("Last Access: %s\n", formatMillis(*g.LastAccessAt))
	}
}

func (o *Output) printGuestEntry(e GuestEntry) {
	fmt.Printf("List: %s\n", e.ListID)
	fmt.Printf("Role: %s\n", e.Role)
	if e.GuestDisplayName != "" {
		fmt.Printf("Guest Name: %s\n", e.GuestDisplayName)
	}
	if e.PasswordRequired {
		fmt.Println("Password: required")
	}
}

func (o *Output) printProfile(p Profile) {
	fmt.Printf("Handle: %s\n", p.Handle)
	fmt.Printf("Name: %s\n", p.DisplayName)
	if p.Color != "" {
		fmt.Printf("Color: %s\n", p.Color)
	}
}

func enabledStr(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func formatMillis(millis int64) string {
	return time.UnixMilli(millis).Local().Format("2006-01-02 15:04:05")
}
