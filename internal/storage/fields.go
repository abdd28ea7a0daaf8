package storage

import (
	"strconv"

	"github.com/mcoot/sharedlist-go/internal/model"
)

// TodoField names one mutable field of a Todo record. Updates are issued
// as field groups (set these, clear those) in a single UpdateTodo call, so
// that concurrent updates to different groups of the same record do not
// clobber each other the way whole-record read-modify-writes would.
type TodoField string

const (
	FieldText            TodoField = "text"
	FieldCompleted       TodoField = "completed"
	FieldCreatedAt       TodoField = "createdAt"
	FieldCreatedBy       TodoField = "createdBy"
	FieldCreatorName     TodoField = "creatorName"
	FieldCompletedAt     TodoField = "completedAt"
	FieldCompletedBy     TodoField = "completedBy"
	FieldCompletedByName TodoField = "completedByName"
	FieldUpdatedAt       TodoField = "updatedAt"
	FieldUpdatedBy       TodoField = "updatedBy"
	FieldDeletedAt       TodoField = "deletedAt"
	FieldDeletedBy       TodoField = "deletedBy"
	FieldRestoredAt      TodoField = "restoredAt"
	FieldRestoredBy      TodoField = "restoredBy"
)

// TodoToFields flattens a Todo into its stored field representation.
// Optional fields that are unset are simply absent.
func TodoToFields(t *model.Todo) map[TodoField]string {
	fields := map[TodoField]string{
		FieldText:        t.Text,
		FieldCompleted:   boolField(t.Completed),
		FieldCreatedAt:   millisField(t.CreatedAt),
		FieldCreatedBy:   string(t.CreatedBy),
		FieldCreatorName: t.CreatorName,
	}
	setOptMillis(fields, FieldCompletedAt, t.CompletedAt)
	setOptHandle(fields, FieldCompletedBy, t.CompletedBy)
	if t.CompletedByName != nil {
		fields[FieldCompletedByName] = *t.CompletedByName
	}
	setOptMillis(fields, FieldUpdatedAt, t.UpdatedAt)
	setOptHandle(fields, FieldUpdatedBy, t.UpdatedBy)
	setOptMillis(fields, FieldDeletedAt, t.DeletedAt)
	setOptHandle(fields, FieldDeletedBy, t.DeletedBy)
	setOptMillis(fields, FieldRestoredAt, t.RestoredAt)
	setOptHandle(fields, FieldRestoredBy, t.RestoredBy)
	return fields
}

// TodoFromFields rebuilds a Todo from its stored field representation
func TodoFromFields(listID model.ListID, id model.TodoID, fields map[string]string) *model.Todo {
	t := &model.Todo{
		ID:          id,
		ListID:      listID,
		Text:        fields[string(FieldText)],
		Completed:   fields[string(FieldCompleted)] == "1",
		CreatedAt:   parseMillis(fields[string(FieldCreatedAt)]),
		CreatedBy:   model.ParticipantHandle(fields[string(FieldCreatedBy)]),
		CreatorName: fields[string(FieldCreatorName)],
	}
	t.CompletedAt = optMillis(fields, FieldCompletedAt)
	t.CompletedBy = optHandle(fields, FieldCompletedBy)
	if v, ok := fields[string(FieldCompletedByName)]; ok {
		t.CompletedByName = &v
	}
	t.UpdatedAt = optMillis(fields, FieldUpdatedAt)
	t.UpdatedBy = optHandle(fields, FieldUpdatedBy)
	t.DeletedAt = optMillis(fields, FieldDeletedAt)
	t.DeletedBy = optHandle(fields, FieldDeletedBy)
	t.RestoredAt = optMillis(fields, FieldRestoredAt)
	t.RestoredBy = optHandle(fields, FieldRestoredBy)
	return t
}

// ApplyTodoFields applies a field-group update to an in-memory Todo.
// Used by backends that hold whole records rather than field maps.
func ApplyTodoFields(t *model.Todo, set map[TodoField]string, clear []TodoField) {
	fields := map[string]string{}
	for k, v := range TodoToFields(t) {
		fields[string(k)] = v
	}
	for k, v := range set {
		fields[string(k)] = v
	}
	for _, k := range clear {
		delete(fields, string(k))
	}
	*t = *TodoFromFields(t.ListID, t.ID, fields)
}

// BoolField encodes a boolean for storage
func BoolField(v bool) string {
	return boolField(v)
}

// MillisField encodes an epoch-milliseconds timestamp for storage
func MillisField(v int64) string {
	return millisField(v)
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func millisField(v int64) string {
	return strconv.FormatInt(v, 10)
}

func parseMillis(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func setOptMillis(fields map[TodoField]string, key TodoField, v *int64) {
	if v != nil {
		fields[key] = millisField(*v)
	}
}

func setOptHandle(fields map[TodoField]string, key TodoField, v *model.ParticipantHandle) {
	if v != nil {
		fields[key] = string(*v)
	}
}

func optMillis(fields map[string]string, key TodoField) *int64 {
	if s, ok := fields[string(key)]; ok {
		v := parseMillis(s)
		return &v
	}
	return nil
}

func optHandle(fields map[string]string, key TodoField) *model.ParticipantHandle {
	if s, ok := fields[string(key)]; ok {
		h := model.ParticipantHandle(s)
		return &h
	}
	return nil
}
