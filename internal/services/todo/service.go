package todo

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

// TrashViewLimit caps how many soft-deleted todos the trash view shows.
// Older soft-deletes stay in the store and remain restorable through a
// direct restore; the cap only bounds the view.
const TrashViewLimit = 10

// Author identifies who performed a mutation
type Author struct {
	Handle model.ParticipantHandle
	Name   string
}

// Snapshot is the reconciled todo view: live items plus the recent trash
type Snapshot struct {
	Active []*model.Todo
	Trash  []*model.Todo
}

// Service owns the lifecycle and ordering of todo items on a list.
//
// Every mutation is a single field-group write against one record; the
// service never reads a record back just to write it out again, keeping
// the lost-update window down to the one the store itself imposes.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new todo Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger.With(slog.String("component", "todo")),
	}
}

// Add creates a new todo. Blank or over-long text is rejected before any
// store call.
func (s *Service) Add(ctx context.Context, listID model.ListID, text string, author Author) (*model.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrEmptyTodoText
	}
	if len(text) > model.MaxTodoTextLength {
		return nil, model.ErrTodoTextTooLong
	}

	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{
		ID:          model.TodoID(generateID("t_")),
		ListID:      listID,
		Text:        text,
		Completed:   false,
		CreatedAt:   now,
		CreatedBy:   author.Handle,
		CreatorName: author.Name,
	}

	if err := s.storage.SaveTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Toggle sets the completion state, stamping the Completed* fields when
// completing and clearing them when uncompleting.
func (s *Service) Toggle(ctx context.Context, listID model.ListID, id model.TodoID, completed bool, actor Author) error {
	if completed {
		now, err := s.storage.ServerNow(ctx)
		if err != nil {
			return err
		}
		return s.storage.UpdateTodo(ctx, listID, id, map[storage.TodoField]string{
			storage.FieldCompleted:       storage.BoolField(true),
			storage.FieldCompletedAt:     storage.MillisField(now),
			storage.FieldCompletedBy:     string(actor.Handle),
			storage.FieldCompletedByName: actor.Name,
		}, nil)
	}

	return s.storage.UpdateTodo(ctx, listID, id, map[storage.TodoField]string{
		storage.FieldCompleted: storage.BoolField(false),
	}, []storage.TodoField{
		storage.FieldCompletedAt,
		storage.FieldCompletedBy,
		storage.FieldCompletedByName,
	})
}

// RequiresConfirmation reports whether a toggle needs an explicit
// confirmation step before the write is issued. Read-only guests may
// uncheck an item only deliberately; the caller inserts the confirmation
// between intent and Toggle.
func RequiresConfirmation(role model.Role, completed bool) bool {
	return role == model.RoleGuest && !completed
}

// Edit replaces the todo's text. Blank text is rejected before any store call.
func (s *Service) Edit(ctx context.Context, listID model.ListID, id model.TodoID, text string, actor Author) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ErrEmptyTodoText
	}
	if len(text) > model.MaxTodoTextLength {
		return model.ErrTodoTextTooLong
	}

	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return err
	}
	return s.storage.UpdateTodo(ctx, listID, id, map[storage.TodoField]string{
		storage.FieldText:      text,
		storage.FieldUpdatedAt: storage.MillisField(now),
		storage.FieldUpdatedBy: string(actor.Handle),
	}, nil)
}

// SoftDelete marks the todo deleted. The record stays in the store and
// remains addressable for Restore.
func (s *Service) SoftDelete(ctx context.Context, listID model.ListID, id model.TodoID, actor Author) error {
	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return err
	}
	return s.storage.UpdateTodo(ctx, listID, id, map[storage.TodoField]string{
		storage.FieldDeletedAt: storage.MillisField(now),
		storage.FieldDeletedBy: string(actor.Handle),
	}, nil)
}

// Restore clears the deletion marker and stamps the restore fields
func (s *Service) Restore(ctx context.Context, listID model.ListID, id model.TodoID, actor Author) error {
	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return err
	}
	return s.storage.UpdateTodo(ctx, listID, id, map[storage.TodoField]string{
		storage.FieldRestoredAt: storage.MillisField(now),
		storage.FieldRestoredBy: string(actor.Handle),
	}, []storage.TodoField{
		storage.FieldDeletedAt,
		storage.FieldDeletedBy,
	})
}

// Purge hard-removes a record. Callers only invoke it on soft-deleted
// items, but the store cannot express that precondition, so purging a
// live item is allowed-but-unusual rather than an error.
func (s *Service) Purge(ctx context.Context, listID model.ListID, id model.TodoID) error {
	return s.storage.DeleteTodo(ctx, listID, id)
}

// PurgeAll purges a batch of todos as independent point deletes. A failed
// delete leaves the rest of the batch unaffected; failures are reported
// per item, never rolled back.
func (s *Service) PurgeAll(ctx context.Context, listID model.ListID, ids []model.TodoID) error {
	var errs []error
	for _, id := range ids {
		if err := s.storage.DeleteTodo(ctx, listID, id); err != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Snapshot returns the reconciled todo view right now
func (s *Service) Snapshot(ctx context.Context, listID model.ListID) (*Snapshot, error) {
	todos, err := s.storage.ListTodos(ctx, listID)
	if err != nil {
		return nil, err
	}
	return reconcile(todos), nil
}

// View streams reconciled snapshots: one immediately, then one on every
// store push, until ctx is canceled.
func (s *Service) View(ctx context.Context, listID model.ListID) (<-chan *Snapshot, error) {
	events, err := s.storage.Watch(ctx, listID, storage.ScopeTodos)
	if err != nil {
		return nil, err
	}

	out := make(chan *Snapshot, 1)

	initial, err := s.Snapshot(ctx, listID)
	if err != nil {
		return nil, err
	}
	out <- initial

	go func() {
		defer close(out)
		for {
			select {
			case _, ok := <-events:
				if !ok {
					return
				}
				snapshot, err := s.Snapshot(ctx, listID)
				if err != nil {
					s.logger.Warn("todo reconcile failed",
						slog.String("list", string(listID)),
						slog.Any("error", err))
					continue
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// reconcile filters structurally invalid records, partitions into active
// and trash, and applies the view ordering: active sorts incomplete-first
// with creation time as tiebreaker; trash sorts newest-deleted-first and
// is capped.
func reconcile(todos []*model.Todo) *Snapshot {
	snapshot := &Snapshot{Active: []*model.Todo{}, Trash: []*model.Todo{}}

	for _, t := range todos {
		if !t.IsValid() {
			continue
		}
		if t.IsDeleted() {
			snapshot.Trash = append(snapshot.Trash, t)
		} else {
			snapshot.Active = append(snapshot.Active, t)
		}
	}

	sort.SliceStable(snapshot.Active, func(i, j int) bool {
		a, b := snapshot.Active[i], snapshot.Active[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.CreatedAt < b.CreatedAt
	})

	sort.SliceStable(snapshot.Trash, func(i, j int) bool {
		return *snapshot.Trash[i].DeletedAt > *snapshot.Trash[j].DeletedAt
	})
	if len(snapshot.Trash) > TrashViewLimit {
		snapshot.Trash = snapshot.Trash[:TrashViewLimit]
	}

	return snapshot
}

// generateID generates a random ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
