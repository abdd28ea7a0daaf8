package model

// ListID is a human-readable identifier for a shared list
type ListID string

// ListMetadata holds the admin-editable fields of a list.
// Both fields are optional; views fall back to the list id when Name is empty.
type ListMetadata struct {
	Name        string
	Description string
}

// DisplayName returns the list name, falling back to the id
func (m ListMetadata) DisplayName(id ListID) string {
	if m.Name != "" {
		return m.Name
	}
	return string(id)
}
