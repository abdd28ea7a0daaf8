package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PresenceTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// List tests

func (s *StorageSuite) TestCreateList() {
	err := s.storage.CreateList(s.ctx, "grocery-run-list", model.ListMetadata{Name: "Groceries"})
	s.Require().NoError(err)

	exists, err := s.storage.ListExists(s.ctx, "grocery-run-list")
	s.Require().NoError(err)
	s.True(exists)

	meta, err := s.storage.GetListMetadata(s.ctx, "grocery-run-list")
	s.Require().NoError(err)
	s.Equal("Groceries", meta.Name)
}

func (s *StorageSuite) TestCreateListFirstWriterWins() {
	err := s.storage.CreateList(s.ctx, "grocery-run-list", model.ListMetadata{Name: "Groceries"})
	s.Require().NoError(err)

	err = s.storage.CreateList(s.ctx, "grocery-run-list", model.ListMetadata{Name: "Squatter"})
	s.ErrorIs(err, model.ErrListExists)

	meta, err := s.storage.GetListMetadata(s.ctx, "grocery-run-list")
	s.Require().NoError(err)
	s.Equal("Groceries", meta.Name)
}

func (s *StorageSuite) TestGetListMetadataNotFound() {
	_, err := s.storage.GetListMetadata(s.ctx, "missing-list")
	s.ErrorIs(err, model.ErrListNotFound)
}

func (s *StorageSuite) TestSaveListMetadata() {
	s.Require().NoError(s.storage.CreateList(s.ctx, "grocery-run-list", model.ListMetadata{}))
	s.Require().NoError(s.storage.SaveListMetadata(s.ctx, "grocery-run-list", model.ListMetadata{Name: "Renamed", Description: "weekly shop"}))

	meta, err := s.storage.GetListMetadata(s.ctx, "grocery-run-list")
	s.Require().NoError(err)
	s.Equal("Renamed", meta.Name)
	s.Equal("weekly shop", meta.Description)
}

// Todo tests

func (s *StorageSuite) TestSaveAndGetTodo() {
	completedAt := int64(1_700_000_100_000)
	completedBy := model.ParticipantHandle("p_bob")
	todo := &model.Todo{
		ID:          "t_abc",
		ListID:      "some-list",
		Text:        "buy milk",
		Completed:   true,
		CreatedAt:   1_700_000_000_000,
		CreatedBy:   "p_alice",
		CreatorName: "Alice",
		CompletedAt: &completedAt,
		CompletedBy: &completedBy,
	}

	s.Require().NoError(s.storage.SaveTodo(s.ctx, todo))

	got, err := s.storage.GetTodo(s.ctx, "some-list", "t_abc")
	s.Require().NoError(err)
	s.Equal(todo.Text, got.Text)
	s.True(got.Completed)
	s.Equal(todo.CreatedAt, got.CreatedAt)
	s.Require().NotNil(got.CompletedAt)
	s.Equal(completedAt, *got.CompletedAt)
	s.Require().NotNil(got.CompletedBy)
	s.Equal(completedBy, *got.CompletedBy)
	s.Nil(got.DeletedAt)
}

func (s *StorageSuite) TestGetTodoNotFound() {
	_, err := s.storage.GetTodo(s.ctx, "some-list", "t_nope")
	s.ErrorIs(err, model.ErrTodoNotFound)
}

func (s *StorageSuite) TestUpdateTodoTouchesOnlyItsFields() {
	todo := &model.Todo{
		ID: "t_abc", ListID: "some-list", Text: "buy milk",
		CreatedAt: 1_700_000_000_000, CreatedBy: "p_alice",
	}
	s.Require().NoError(s.storage.SaveTodo(s.ctx, todo))

	err := s.storage.UpdateTodo(s.ctx, "some-list", "t_abc", map[storage.TodoField]string{
		storage.FieldCompleted:   storage.BoolField(true),
		storage.FieldCompletedAt: storage.MillisField(1_700_000_100_000),
		storage.FieldCompletedBy: "p_bob",
	}, nil)
	s.Require().NoError(err)

	got, err := s.storage.GetTodo(s.ctx, "some-list", "t_abc")
	s.Require().NoError(err)
	s.True(got.Completed)
	s.Equal("buy milk", got.Text)
	s.Equal(model.ParticipantHandle("p_alice"), got.CreatedBy)
}

func (s *StorageSuite) TestUpdateTodoClearsFields() {
	deletedAt := int64(1_700_000_200_000)
	deletedBy := model.ParticipantHandle("p_alice")
	todo := &model.Todo{
		ID: "t_abc", ListID: "some-list", Text: "buy milk",
		DeletedAt: &deletedAt, DeletedBy: &deletedBy,
	}
	s.Require().NoError(s.storage.SaveTodo(s.ctx, todo))

	err := s.storage.UpdateTodo(s.ctx, "some-list", "t_abc", map[storage.TodoField]string{
		storage.FieldRestoredAt: storage.MillisField(1_700_000_300_000),
		storage.FieldRestoredBy: "p_bob",
	}, []storage.TodoField{storage.FieldDeletedAt, storage.FieldDeletedBy})
	s.Require().NoError(err)

	got, err := s.storage.GetTodo(s.ctx, "some-list", "t_abc")
	s.Require().NoError(err)
	s.Nil(got.DeletedAt)
	s.Nil(got.DeletedBy)
	s.Require().NotNil(got.RestoredAt)
	s.Equal(int64(1_700_000_300_000), *got.RestoredAt)
	s.False(got.IsDeleted())
}

func (s *StorageSuite) TestUpdateTodoAfterPurgeLeavesPartialRecord() {
	err := s.storage.UpdateTodo(s.ctx, "some-list", "t_ghost", map[storage.TodoField]string{
		storage.FieldCompleted: storage.BoolField(true),
	}, nil)
	s.Require().NoError(err)

	got, err := s.storage.GetTodo(s.ctx, "some-list", "t_ghost")
	s.Require().NoError(err)
	s.True(got.Completed)
	s.False(got.IsValid())
}

func (s *StorageSuite) TestDeleteTodo() {
	todo := &model.Todo{ID: "t_abc", ListID: "some-list", Text: "buy milk"}
	s.Require().NoError(s.storage.SaveTodo(s.ctx, todo))
	s.Require().NoError(s.storage.DeleteTodo(s.ctx, "some-list", "t_abc"))

	_, err := s.storage.GetTodo(s.ctx, "some-list", "t_abc")
	s.ErrorIs(err, model.ErrTodoNotFound)

	todos, err := s.storage.ListTodos(s.ctx, "some-list")
	s.Require().NoError(err)
	s.Empty(todos)
}

func (s *StorageSuite) TestListTodos() {
	s.Require().NoError(s.storage.SaveTodo(s.ctx, &model.Todo{ID: "t_1", ListID: "some-list", Text: "one"}))
	s.Require().NoError(s.storage.SaveTodo(s.ctx, &model.Todo{ID: "t_2", ListID: "some-list", Text: "two"}))
	s.Require().NoError(s.storage.SaveTodo(s.ctx, &model.Todo{ID: "t_3", ListID: "other-list", Text: "three"}))

	todos, err := s.storage.ListTodos(s.ctx, "some-list")
	s.Require().NoError(err)
	s.Len(todos, 2)

	ids := map[model.TodoID]bool{}
	for _, t := range todos {
		ids[t.ID] = true
	}
	s.True(ids["t_1"])
	s.True(ids["t_2"])
}

// Presence tests

func (s *StorageSuite) TestSaveAndListPresence() {
	editing := model.TodoID("t_abc")
	p := &model.Presence{
		Handle: "p_alice", ListID: "some-list",
		DisplayName: "Alice", Color: "#aabbcc",
		LastSeenAt: 1_700_000_000_000, IsTyping: true, EditingTodo: &editing,
	}
	s.Require().NoError(s.storage.SavePresence(s.ctx, p))

	records, err := s.storage.ListPresence(s.ctx, "some-list")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("Alice", records[0].DisplayName)
	s.True(records[0].IsTyping)
	s.Require().NotNil(records[0].EditingTodo)
	s.Equal(editing, *records[0].EditingTodo)
}

func (s *StorageSuite) TestPresenceExpiresWithTTL() {
	p := &model.Presence{Handle: "p_alice", ListID: "some-list", DisplayName: "Alice", LastSeenAt: 1}
	s.Require().NoError(s.storage.SavePresence(s.ctx, p))

	s.mini.FastForward(2 * time.Hour)

	records, err := s.storage.ListPresence(s.ctx, "some-list")
	s.Require().NoError(err)
	s.Empty(records)
}

// Admin tests

func (s *StorageSuite) TestSaveAndListAdmins() {
	s.Require().NoError(s.storage.SaveAdmin(s.ctx, &model.Admin{
		Handle: "p_alice", ListID: "some-list", DisplayName: "Alice", ClaimedAt: 1_700_000_000_000,
	}))
	s.Require().NoError(s.storage.SaveAdmin(s.ctx, &model.Admin{
		Handle: "p_bob", ListID: "some-list", DisplayName: "Bob", ClaimedAt: 1_700_000_100_000,
	}))

	admins, err := s.storage.ListAdmins(s.ctx, "some-list")
	s.Require().NoError(err)
	s.Len(admins, 2)

	none, err := s.storage.ListAdmins(s.ctx, "other-list")
	s.Require().NoError(err)
	s.Empty(none)
}

// Password tests

func (s *StorageSuite) TestPasswordSettingsDefaultEmpty() {
	settings, err := s.storage.GetPasswordSettings(s.ctx, "some-list")
	s.Require().NoError(err)
	s.False(settings.Enabled(model.TierAdmin))
	s.False(settings.Enabled(model.TierNormal))
	s.False(settings.Enabled(model.TierGuest))
}

func (s *StorageSuite) TestSetTierPassword() {
	s.Require().NoError(s.storage.SetTierPassword(s.ctx, "some-list", model.TierAdmin, "hunter2", true))
	s.Require().NoError(s.storage.SetTierPassword(s.ctx, "some-list", model.TierGuest, "letmein", true))

	settings, err := s.storage.GetPasswordSettings(s.ctx, "some-list")
	s.Require().NoError(err)
	s.True(settings.Enabled(model.TierAdmin))
	s.Equal("hunter2", settings.Password(model.TierAdmin))
	s.True(settings.Enabled(model.TierGuest))
	s.Equal("letmein", settings.Password(model.TierGuest))
	s.False(settings.Enabled(model.TierNormal))

	s.Require().NoError(s.storage.SetTierPassword(s.ctx, "some-list", model.TierAdmin, "", false))
	settings, err = s.storage.GetPasswordSettings(s.ctx, "some-list")
	s.Require().NoError(err)
	s.False(settings.Enabled(model.TierAdmin))
}

func (s *StorageSuite) TestSetTierPasswordInvalidTier() {
	err := s.storage.SetTierPassword(s.ctx, "some-list", "superuser", "x", true)
	s.ErrorIs(err, model.ErrInvalidTier)
}

// Guest link tests

func (s *StorageSuite) TestSaveAndGetGuestLink() {
	expiresAt := int64(1_700_086_400_000)
	link := &model.GuestLink{
		ID: "sunny-garden-key", ListID: "some-list",
		CreatedBy: "p_alice", CreatedAt: 1_700_000_000_000,
		Name: "neighbours", Password: "plum", ExpiresAt: &expiresAt,
	}
	s.Require().NoError(s.storage.SaveGuestLink(s.ctx, link))

	got, err := s.storage.GetGuestLink(s.ctx, "sunny-garden-key")
	s.Require().NoError(err)
	s.Equal(model.ListID("some-list"), got.ListID)
	s.Equal("plum", got.Password)
	s.Require().NotNil(got.ExpiresAt)
	s.Equal(expiresAt, *got.ExpiresAt)
}

func (s *StorageSuite) TestGetGuestLinkNotFound() {
	_, err := s.storage.GetGuestLink(s.ctx, "never-made-key")
	s.ErrorIs(err, model.ErrGuestLinkNotFound)
}

func (s *StorageSuite) TestListGuestLinks() {
	s.Require().NoError(s.storage.SaveGuestLink(s.ctx, &model.GuestLink{ID: "link-one-key", ListID: "some-list"}))
	s.Require().NoError(s.storage.SaveGuestLink(s.ctx, &model.GuestLink{ID: "link-two-key", ListID: "some-list"}))
	s.Require().NoError(s.storage.SaveGuestLink(s.ctx, &model.GuestLink{ID: "link-other-key", ListID: "other-list"}))

	links, err := s.storage.ListGuestLinks(s.ctx, "some-list")
	s.Require().NoError(err)
	s.Len(links, 2)
}

func (s *StorageSuite) TestDeleteGuestLink() {
	s.Require().NoError(s.storage.SaveGuestLink(s.ctx, &model.GuestLink{ID: "doomed-link-key", ListID: "some-list"}))
	s.Require().NoError(s.storage.DeleteGuestLink(s.ctx, "doomed-link-key"))

	_, err := s.storage.GetGuestLink(s.ctx, "doomed-link-key")
	s.ErrorIs(err, model.ErrGuestLinkNotFound)

	links, err := s.storage.ListGuestLinks(s.ctx, "some-list")
	s.Require().NoError(err)
	s.Empty(links)

	// Deleting an absent link still counts as deleted
	s.NoError(s.storage.DeleteGuestLink(s.ctx, "doomed-link-key"))
}

// Watch tests

func (s *StorageSuite) TestWatchDeliversEvents() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	events, err := s.storage.Watch(ctx, "some-list", storage.ScopeTodos)
	s.Require().NoError(err)

	s.Require().NoError(s.storage.SaveTodo(s.ctx, &model.Todo{ID: "t_1", ListID: "some-list", Text: "one"}))

	select {
	case ev := <-events:
		s.Equal(model.ListID("some-list"), ev.ListID)
		s.Equal(storage.ScopeTodos, ev.Scope)
		s.Equal("t_1", ev.Key)
	case <-time.After(2 * time.Second):
		s.Fail("no event delivered")
	}
}

func (s *StorageSuite) TestWatchClosesOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	events, err := s.storage.Watch(ctx, "some-list", storage.ScopeTodos)
	s.Require().NoError(err)

	cancel()

	select {
	case _, ok := <-events:
		s.False(ok, "channel should be closed")
	case <-time.After(2 * time.Second):
		s.Fail("channel not closed after cancel")
	}
}
