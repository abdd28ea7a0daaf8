package memory

import (
	"context"
	"sync"

	"github.com/mcoot/sharedlist-go/internal/dependencies/clock"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Change notifications are delivered to in-process watchers only, which is
// all a single-node deployment or a test needs.
type Storage struct {
	mu sync.RWMutex

	clock clock.Clock

	metadata   map[model.ListID]model.ListMetadata
	todos      map[model.ListID]map[model.TodoID]*model.Todo
	presence   map[model.ListID]map[model.ParticipantHandle]*model.Presence
	admins     map[model.ListID]map[model.ParticipantHandle]*model.Admin
	passwords  map[model.ListID]*model.PasswordSettings
	guestLinks map[model.GuestLinkID]*model.GuestLink

	watchMu  sync.Mutex
	watchers map[watchKey]map[chan storage.ChangeEvent]struct{}
}

type watchKey struct {
	listID model.ListID
	scope  storage.WatchScope
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	return &Storage{
		clock:      clk,
		metadata:   make(map[model.ListID]model.ListMetadata),
		todos:      make(map[model.ListID]map[model.TodoID]*model.Todo),
		presence:   make(map[model.ListID]map[model.ParticipantHandle]*model.Presence),
		admins:     make(map[model.ListID]map[model.ParticipantHandle]*model.Admin),
		passwords:  make(map[model.ListID]*model.PasswordSettings),
		guestLinks: make(map[model.GuestLinkID]*model.GuestLink),
		watchers:   make(map[watchKey]map[chan storage.ChangeEvent]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// ServerNow returns the injected clock's time in epoch milliseconds
func (s *Storage) ServerNow(ctx context.Context) (int64, error) {
	return s.clock.NowMillis(), nil
}

// List operations

func (s *Storage) CreateList(ctx context.Context, id model.ListID, meta model.ListMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.metadata[id]; ok {
		return model.ErrListExists
	}
	s.metadata[id] = meta
	return nil
}

func (s *Storage) ListExists(ctx context.Context, id model.ListID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.metadata[id]
	return ok, nil
}

func (s *Storage) GetListMetadata(ctx context.Context, id model.ListID) (model.ListMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.metadata[id]
	if !ok {
		return model.ListMetadata{}, model.ErrListNotFound
	}
	return meta, nil
}

func (s *Storage) SaveListMetadata(ctx context.Context, id model.ListID, meta model.ListMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[id] = meta
	return nil
}

// Todo operations

func (s *Storage) SaveTodo(ctx context.Context, todo *model.Todo) error {
	s.mu.Lock()
	if s.todos[todo.ListID] == nil {
		s.todos[todo.ListID] = make(map[model.TodoID]*model.Todo)
	}
	s.todos[todo.ListID][todo.ID] = todo
	s.mu.Unlock()

	s.notify(todo.ListID, storage.ScopeTodos, string(todo.ID))
	return nil
}

func (s *Storage) UpdateTodo(ctx context.Context, listID model.ListID, id model.TodoID, set map[storage.TodoField]string, clear []storage.TodoField) error {
	s.mu.Lock()
	if s.todos[listID] == nil {
		s.todos[listID] = make(map[model.TodoID]*model.Todo)
	}
	// An update against a missing record creates a partial one, the same
	// way a field write to a purged key would in a replicated store.
	// Partial records have blank text and are filtered from every view.
	updated := model.Todo{ID: id, ListID: listID}
	if todo, ok := s.todos[listID][id]; ok {
		updated = *todo
	}
	storage.ApplyTodoFields(&updated, set, clear)
	s.todos[listID][id] = &updated
	s.mu.Unlock()

	s.notify(listID, storage.ScopeTodos, string(id))
	return nil
}

func (s *Storage) GetTodo(ctx context.Context, listID model.ListID, id model.TodoID) (*model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todo, ok := s.todos[listID][id]
	if !ok {
		return nil, model.ErrTodoNotFound
	}
	return todo, nil
}

func (s *Storage) DeleteTodo(ctx context.Context, listID model.ListID, id model.TodoID) error {
	s.mu.Lock()
	delete(s.todos[listID], id)
	s.mu.Unlock()

	s.notify(listID, storage.ScopeTodos, string(id))
	return nil
}

func (s *Storage) ListTodos(ctx context.Context, listID model.ListID) ([]*model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todos := make([]*model.Todo, 0, len(s.todos[listID]))
	for _, t := range s.todos[listID] {
		todos = append(todos, t)
	}
	return todos, nil
}

// Presence operations

func (s *Storage) SavePresence(ctx context.Context, p *model.Presence) error {
	s.mu.Lock()
	if s.presence[p.ListID] == nil {
		s.presence[p.ListID] = make(map[model.ParticipantHandle]*model.Presence)
	}
	s.presence[p.ListID][p.Handle] = p
	s.mu.Unlock()

	s.notify(p.ListID, storage.ScopePresence, string(p.Handle))
	return nil
}

func (s *Storage) ListPresence(ctx context.Context, listID model.ListID) ([]*model.Presence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*model.Presence, 0, len(s.presence[listID]))
	for _, p := range s.presence[listID] {
		records = append(records, p)
	}
	return records, nil
}

// Admin operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admins[admin.ListID] == nil {
		s.admins[admin.ListID] = make(map[model.ParticipantHandle]*model.Admin)
	}
	s.admins[admin.ListID][admin.Handle] = admin
	return nil
}

func (s *Storage) ListAdmins(ctx context.Context, listID model.ListID) ([]*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admins := make([]*model.Admin, 0, len(s.admins[listID]))
	for _, a := range s.admins[listID] {
		admins = append(admins, a)
	}
	return admins, nil
}

// Password operations

func (s *Storage) GetPasswordSettings(ctx context.Context, listID model.ListID) (model.PasswordSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.passwords[listID]
	if !ok {
		return model.PasswordSettings{}, nil
	}
	return *settings, nil
}

func (s *Storage) SetTierPassword(ctx context.Context, listID model.ListID, tier model.PasswordTier, password string, enabled bool) error {
	// Two separate writes, value first then flag, mirroring the two point
	// writes a replicated backend performs
	s.mu.Lock()
	settings, ok := s.passwords[listID]
	if !ok {
		settings = &model.PasswordSettings{}
		s.passwords[listID] = settings
	}
	switch tier {
	case model.TierAdmin:
		settings.AdminPassword = password
	case model.TierNormal:
		settings.NormalPassword = password
	case model.TierGuest:
		settings.GuestPassword = password
	default:
		s.mu.Unlock()
		return model.ErrInvalidTier
	}
	s.mu.Unlock()

	s.mu.Lock()
	switch tier {
	case model.TierAdmin:
		settings.EnabledModes.AdminPasswordEnabled = enabled
	case model.TierNormal:
		settings.EnabledModes.NormalPasswordEnabled = enabled
	case model.TierGuest:
		settings.EnabledModes.GuestPasswordEnabled = enabled
	}
	s.mu.Unlock()
	return nil
}

// Guest link operations

func (s *Storage) SaveGuestLink(ctx context.Context, link *model.GuestLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guestLinks[link.ID] = cloneGuestLink(link)
	return nil
}

func (s *Storage) GetGuestLink(ctx context.Context, id model.GuestLinkID) (*model.GuestLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.guestLinks[id]
	if !ok {
		return nil, model.ErrGuestLinkNotFound
	}
	return cloneGuestLink(link), nil
}

func (s *Storage) ListGuestLinks(ctx context.Context, listID model.ListID) ([]*model.GuestLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var links []*model.GuestLink
	for _, l := range s.guestLinks {
		if l.ListID == listID {
			links = append(links, cloneGuestLink(l))
		}
	}
	return links, nil
}

// cloneGuestLink copies a link so callers never alias the stored record.
// Services mutate access accounting fields in place before saving.
func cloneGuestLink(link *model.GuestLink) *model.GuestLink {
	c := *link
	if link.ExpiresAt != nil {
		v := *link.ExpiresAt
		c.ExpiresAt = &v
	}
	if link.LastAccessAt != nil {
		v := *link.LastAccessAt
		c.LastAccessAt = &v
	}
	if link.UpdatedAt != nil {
		v := *link.UpdatedAt
		c.UpdatedAt = &v
	}
	return &c
}

func (s *Storage) DeleteGuestLink(ctx context.Context, id model.GuestLinkID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.guestLinks, id)
	return nil
}

// Watch operations

func (s *Storage) Watch(ctx context.Context, listID model.ListID, scope storage.WatchScope) (<-chan storage.ChangeEvent, error) {
	key := watchKey{listID: listID, scope: scope}
	ch := make(chan storage.ChangeEvent, 64)

	s.watchMu.Lock()
	if s.watchers[key] == nil {
		s.watchers[key] = make(map[chan storage.ChangeEvent]struct{})
	}
	s.watchers[key][ch] = struct{}{}
	s.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchMu.Lock()
		delete(s.watchers[key], ch)
		s.watchMu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// notify fans a change event out to watchers. Slow watchers have events
// dropped rather than blocking the writer; watchers re-read the subtree on
// any event, so a dropped event is recovered by the next one.
func (s *Storage) notify(listID model.ListID, scope storage.WatchScope, key string) {
	event := storage.ChangeEvent{ListID: listID, Scope: scope, Key: key}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ch := range s.watchers[watchKey{listID: listID, scope: scope}] {
		select {
		case ch <- event:
		default:
		}
	}
}
