package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Entities are stored as JSON values at per-entity keys, with SET indexes
// for per-list enumeration; change notifications ride pub/sub channels.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// ServerNow returns the Redis server's clock as epoch milliseconds
func (s *Storage) ServerNow(ctx context.Context) (int64, error) {
	t, err := s.client.Time(ctx).Result()
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// List operations

func (s *Storage) CreateList(ctx context.Context, id model.ListID, meta model.ListMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, listMetaKey(id), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrListExists
	}
	return nil
}

func (s *Storage) ListExists(ctx context.Context, id model.ListID) (bool, error) {
	exists, err := s.client.Exists(ctx, listMetaKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) GetListMetadata(ctx context.Context, id model.ListID) (model.ListMetadata, error) {
	data, err := s.client.Get(ctx, listMetaKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ListMetadata{}, model.ErrListNotFound
		}
		return model.ListMetadata{}, err
	}

	var meta model.ListMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return model.ListMetadata{}, err
	}
	return meta, nil
}

func (s *Storage) SaveListMetadata(ctx context.Context, id model.ListID, meta model.ListMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, listMetaKey(id), data, 0).Err()
}

// Todo operations
//
// Todos are stored as hashes, not JSON blobs, so that an update touches
// only its own field group. Two clients concurrently toggling and editing
// the same todo each win their own fields instead of one whole-record
// write clobbering the other.

func (s *Storage) SaveTodo(ctx context.Context, todo *model.Todo) error {
	key := todoKey(todo.ListID, todo.ID)

	values := make([]any, 0, 28)
	for field, value := range storage.TodoToFields(todo) {
		values = append(values, string(field), value)
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, values...)
	pipe.SAdd(ctx, todosIndexKey(todo.ListID), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	s.publish(ctx, todo.ListID, storage.ScopeTodos, string(todo.ID))
	return nil
}

func (s *Storage) UpdateTodo(ctx context.Context, listID model.ListID, id model.TodoID, set map[storage.TodoField]string, clear []storage.TodoField) error {
	key := todoKey(listID, id)

	pipe := s.client.Pipeline()
	if len(set) > 0 {
		values := make([]any, 0, len(set)*2)
		for field, value := range set {
			values = append(values, string(field), value)
		}
		pipe.HSet(ctx, key, values...)
	}
	if len(clear) > 0 {
		fields := make([]string, len(clear))
		for i, field := range clear {
			fields[i] = string(field)
		}
		pipe.HDel(ctx, key, fields...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	s.publish(ctx, listID, storage.ScopeTodos, string(id))
	return nil
}

func (s *Storage) GetTodo(ctx context.Context, listID model.ListID, id model.TodoID) (*model.Todo, error) {
	fields, err := s.client.HGetAll(ctx, todoKey(listID, id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrTodoNotFound
	}
	return storage.TodoFromFields(listID, id, fields), nil
}

func (s *Storage) DeleteTodo(ctx context.Context, listID model.ListID, id model.TodoID) error {
	key := todoKey(listID, id)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, todosIndexKey(listID), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	s.publish(ctx, listID, storage.ScopeTodos, string(id))
	return nil
}

func (s *Storage) ListTodos(ctx context.Context, listID model.ListID) ([]*model.Todo, error) {
	keys, err := s.client.SMembers(ctx, todosIndexKey(listID)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Todo{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGetAll(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	prefix := todoKey(listID, "")
	todos := make([]*model.Todo, 0, len(keys))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue // index entry outlived the record
		}
		id := model.TodoID(strings.TrimPrefix(keys[i], prefix))
		todos = append(todos, storage.TodoFromFields(listID, id, fields))
	}

	return todos, nil
}

// Presence operations

func (s *Storage) SavePresence(ctx context.Context, p *model.Presence) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := presenceKey(p.ListID, p.Handle)
	indexKey := presenceIndexKey(p.ListID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.PresenceTTL)
	pipe.SAdd(ctx, indexKey, key)
	pipe.Expire(ctx, indexKey, s.cfg.PresenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	s.publish(ctx, p.ListID, storage.ScopePresence, string(p.Handle))
	return nil
}

func (s *Storage) ListPresence(ctx context.Context, listID model.ListID) ([]*model.Presence, error) {
	keys, err := s.client.SMembers(ctx, presenceIndexKey(listID)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Presence{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.Presence, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // record expired out from under the index
		}
		var p model.Presence
		if err := json.Unmarshal([]byte(val.(string)), &p); err != nil {
			continue
		}
		records = append(records, &p)
	}

	return records, nil
}

// Admin operations

func (s *Storage) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	data, err := json.Marshal(admin)
	if err != nil {
		return err
	}

	key := adminKey(admin.ListID, admin.Handle)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, adminsIndexKey(admin.ListID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListAdmins(ctx context.Context, listID model.ListID) ([]*model.Admin, error) {
	keys, err := s.client.SMembers(ctx, adminsIndexKey(listID)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Admin{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	admins := make([]*model.Admin, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var a model.Admin
		if err := json.Unmarshal([]byte(val.(string)), &a); err != nil {
			continue
		}
		admins = append(admins, &a)
	}

	return admins, nil
}

// Password operations

func (s *Storage) GetPasswordSettings(ctx context.Context, listID model.ListID) (model.PasswordSettings, error) {
	tiers := []model.PasswordTier{model.TierAdmin, model.TierNormal, model.TierGuest}
	keys := make([]string, 0, len(tiers)*2)
	for _, tier := range tiers {
		keys = append(keys, passwordKey(listID, tier), passwordEnabledKey(listID, tier))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return model.PasswordSettings{}, err
	}

	var settings model.PasswordSettings
	for i, tier := range tiers {
		password := stringValue(values[i*2])
		enabled := stringValue(values[i*2+1]) == "1"
		switch tier {
		case model.TierAdmin:
			settings.AdminPassword = password
			settings.EnabledModes.AdminPasswordEnabled = enabled
		case model.TierNormal:
			settings.NormalPassword = password
			settings.EnabledModes.NormalPasswordEnabled = enabled
		case model.TierGuest:
			settings.GuestPassword = password
			settings.EnabledModes.GuestPasswordEnabled = enabled
		}
	}

	return settings, nil
}

func (s *Storage) SetTierPassword(ctx context.Context, listID model.ListID, tier model.PasswordTier, password string, enabled bool) error {
	if !model.ValidTier(string(tier)) {
		return model.ErrInvalidTier
	}

	// Deliberately two sequential point writes, not a pipeline: the
	// engine is specified against a store with no multi-key atomicity,
	// and readers mid-sequence may observe a mixed state.
	if err := s.client.Set(ctx, passwordKey(listID, tier), password, 0).Err(); err != nil {
		return err
	}

	flag := "0"
	if enabled {
		flag = "1"
	}
	return s.client.Set(ctx, passwordEnabledKey(listID, tier), flag, 0).Err()
}

// Guest link operations

func (s *Storage) SaveGuestLink(ctx context.Context, link *model.GuestLink) error {
	data, err := json.Marshal(link)
	if err != nil {
		return err
	}

	key := guestLinkKey(link.ID)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, guestLinksIndexKey(link.ListID), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGuestLink(ctx context.Context, id model.GuestLinkID) (*model.GuestLink, error) {
	data, err := s.client.Get(ctx, guestLinkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGuestLinkNotFound
		}
		return nil, err
	}

	var link model.GuestLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *Storage) ListGuestLinks(ctx context.Context, listID model.ListID) ([]*model.GuestLink, error) {
	keys, err := s.client.SMembers(ctx, guestLinksIndexKey(listID)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.GuestLink{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	links := make([]*model.GuestLink, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // revoked link still in the index
		}
		var link model.GuestLink
		if err := json.Unmarshal([]byte(val.(string)), &link); err != nil {
			continue
		}
		links = append(links, &link)
	}

	return links, nil
}

func (s *Storage) DeleteGuestLink(ctx context.Context, id model.GuestLinkID) error {
	// Resolve the list so the index entry can be removed too; a missing
	// record still counts as deleted
	link, err := s.GetGuestLink(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrGuestLinkNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, guestLinkKey(id))
	pipe.SRem(ctx, guestLinksIndexKey(link.ListID), guestLinkKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Watch operations

func (s *Storage) Watch(ctx context.Context, listID model.ListID, scope storage.WatchScope) (<-chan storage.ChangeEvent, error) {
	sub := s.client.Subscribe(ctx, watchChannel(listID, scope))

	// Confirm the subscription before returning so callers never miss
	// events for writes they make after Watch returns
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	ch := make(chan storage.ChangeEvent, 64)
	go func() {
		defer close(ch)
		defer func() { _ = sub.Close() }()

		for {
			select {
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				event := storage.ChangeEvent{ListID: listID, Scope: scope, Key: msg.Payload}
				select {
				case ch <- event:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// publish fires a best-effort change notification. Failures are ignored:
// watchers reconcile from a full re-read, and the data write has already
// succeeded.
func (s *Storage) publish(ctx context.Context, listID model.ListID, scope storage.WatchScope, key string) {
	_ = s.client.Publish(ctx, watchChannel(listID, scope), key).Err()
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}
