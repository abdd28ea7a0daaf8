package model

import "strings"

// TodoID uniquely identifies a todo item within a list
type TodoID string

// MaxTodoTextLength is the maximum length of a todo's text
const MaxTodoTextLength = 500

// Todo is a single item on a shared list.
//
// All timestamps are server-assigned epoch milliseconds. The Completed*,
// Updated*, Deleted* and Restored* field groups are each written as a unit
// by a single update; concurrent updates to the same group resolve
// last-writer-wins at the store.
type Todo struct {
	ID        TodoID
	ListID    ListID
	Text      string
	Completed bool

	CreatedAt   int64
	CreatedBy   ParticipantHandle
	CreatorName string

	CompletedAt     *int64
	CompletedBy     *ParticipantHandle
	CompletedByName *string

	UpdatedAt *int64
	UpdatedBy *ParticipantHandle

	DeletedAt *int64
	DeletedBy *ParticipantHandle

	RestoredAt *int64
	RestoredBy *ParticipantHandle
}

// IsDeleted reports whether the todo has been soft-deleted
func (t *Todo) IsDeleted() bool {
	return t.DeletedAt != nil
}

// IsValid reports whether the record is structurally usable. Records with
// blank text can appear in the store after partial or corrupt writes and
// must be excluded from every view.
func (t *Todo) IsValid() bool {
	return strings.TrimSpace(t.Text) != ""
}
