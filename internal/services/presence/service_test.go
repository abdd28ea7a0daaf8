package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sharedlist-go/internal/dependencies/mocks"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/storage/memory"
	"github.com/mcoot/sharedlist-go/internal/testutil"
)

const testList = model.ListID("picnic-prep-list")

func TestResolveStatus(t *testing.T) {
	now := int64(1_700_000_000_000)

	tests := []struct {
		name     string
		lastSeen int64
		want     model.PresenceStatus
	}{
		{"never seen", 0, model.StatusOffline},
		{"negative last seen", -1, model.StatusOffline},
		{"seen just now", now, model.StatusOnline},
		{"one millisecond under online threshold", now - OnlineThreshold.Milliseconds() + 1, model.StatusOnline},
		{"exactly at online threshold", now - OnlineThreshold.Milliseconds(), model.StatusInactive},
		{"one millisecond under offline threshold", now - OfflineThreshold.Milliseconds() + 1, model.StatusInactive},
		{"exactly at offline threshold", now - OfflineThreshold.Milliseconds(), model.StatusOffline},
		{"long gone", now - 24*time.Hour.Milliseconds(), model.StatusOffline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(now, tt.lastSeen))
		})
	}
}

func TestFilterActive(t *testing.T) {
	now := int64(1_700_000_000_000)
	views := []model.PresenceView{
		{Presence: model.Presence{Handle: "p_fresh", LastSeenAt: now - 1000}},
		{Presence: model.Presence{Handle: "p_stale", LastSeenAt: now - 10*time.Minute.Milliseconds()}},
		{Presence: model.Presence{Handle: "p_never", LastSeenAt: 0}},
	}

	active := FilterActive(views, OnlineThreshold, now)
	assert.Len(t, active, 1)
	assert.Equal(t, model.ParticipantHandle("p_fresh"), active[0].Handle)

	// A wider horizon admits the stale record too
	roster := FilterActive(views, 24*time.Hour, now)
	assert.Len(t, roster, 2)
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New(s.clock)
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestHeartbeatStampsServerTime() {
	editing := model.TodoID("t_abc")
	err := s.service.Heartbeat(s.ctx, model.Presence{
		Handle: "p_alice", ListID: testList, DisplayName: "Alice",
		IsTyping: true, EditingTodo: &editing,
	})
	s.Require().NoError(err)

	records, err := s.storage.ListPresence(s.ctx, testList)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(s.clock.NowMillis(), records[0].LastSeenAt)
	s.True(records[0].IsTyping)
}

func (s *ServiceSuite) TestHeartbeatIsIdempotent() {
	p := model.Presence{Handle: "p_alice", ListID: testList, DisplayName: "Alice"}
	s.Require().NoError(s.service.Heartbeat(s.ctx, p))

	s.clock.Advance(30 * time.Second)
	s.Require().NoError(s.service.Heartbeat(s.ctx, p))

	records, err := s.storage.ListPresence(s.ctx, testList)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(s.clock.NowMillis(), records[0].LastSeenAt)
}

func (s *ServiceSuite) TestRosterUsesDayHorizon() {
	s.Require().NoError(s.service.Heartbeat(s.ctx, model.Presence{
		Handle: "p_alice", ListID: testList, DisplayName: "Alice",
	}))
	s.clock.Advance(6 * time.Hour)
	s.Require().NoError(s.service.Heartbeat(s.ctx, model.Presence{
		Handle: "p_bob", ListID: testList, DisplayName: "Bob",
	}))
	s.clock.Advance(20 * time.Hour)

	// Alice is 26h stale and drops off the roster; Bob is 20h stale and
	// stays, shown Offline
	roster, err := s.service.Roster(s.ctx, testList, "p_bob")
	s.Require().NoError(err)
	s.Require().Len(roster, 1)
	s.Equal(model.ParticipantHandle("p_bob"), roster[0].Handle)
	s.Equal(model.StatusOffline, roster[0].Status)

	snapshot, err := s.service.Snapshot(s.ctx, testList, "p_bob")
	s.Require().NoError(err)
	s.Len(snapshot, 2)
}

func (s *ServiceSuite) TestMarkAwayClearsTransientState() {
	editing := model.TodoID("t_abc")
	s.Require().NoError(s.service.Heartbeat(s.ctx, model.Presence{
		Handle: "p_alice", ListID: testList, DisplayName: "Alice",
		IsTyping: true, EditingTodo: &editing,
	}))

	s.Require().NoError(s.service.MarkAway(s.ctx, model.Presence{
		Handle: "p_alice", ListID: testList, DisplayName: "Alice",
		IsTyping: true, EditingTodo: &editing,
	}))

	records, err := s.storage.ListPresence(s.ctx, testList)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.False(records[0].IsTyping)
	s.Nil(records[0].EditingTodo)
	// The record is refreshed, not deleted
	s.Equal(s.clock.NowMillis(), records[0].LastSeenAt)
}

func (s *ServiceSuite) TestSnapshotOrdering() {
	// Carol heartbeats, goes quiet for three minutes, then Alice and Bob
	// arrive a minute apart
	s.Require().NoError(s.service.Heartbeat(s.ctx, model.Presence{Handle: "p_carol", ListID: testList}))
	s.clock.Advance(3 * time.Minute)
	s.Require().NoError(s.service.Heartbeat(s.ctx, model.Presence{Handle: "p_alice", ListID: testList}))
	s.clock.Advance(time.Minute)
	s.Require().NoError(s.service.Heartbeat(s.ctx, model.Presence{Handle: "p_bob", ListID: testList}))

	views, err := s.service.Snapshot(s.ctx, testList, "p_alice")
	s.Require().NoError(err)
	s.Require().Len(views, 3)

	// Self first even though Bob was seen more recently
	s.Equal(model.ParticipantHandle("p_alice"), views[0].Handle)
	s.True(views[0].IsSelf)
	s.Equal(model.StatusOnline, views[0].Status)

	s.Equal(model.ParticipantHandle("p_bob"), views[1].Handle)
	s.Equal(model.StatusOnline, views[1].Status)

	s.Equal(model.ParticipantHandle("p_carol"), views[2].Handle)
	s.Equal(model.StatusInactive, views[2].Status)

	// Stack indexes descend so the first view renders on top
	s.Equal(2, views[0].StackIndex)
	s.Equal(1, views[1].StackIndex)
	s.Equal(0, views[2].StackIndex)
}

func (s *ServiceSuite) TestObserveStreamsOnChange() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	views, err := s.service.Observe(ctx, testList, "p_alice")
	s.Require().NoError(err)

	// Initial snapshot is empty
	select {
	case snapshot := <-views:
		s.Empty(snapshot)
	case <-time.After(time.Second):
		s.Fail("no initial snapshot")
	}

	s.Require().NoError(s.service.Heartbeat(s.ctx, model.Presence{Handle: "p_bob", ListID: testList}))

	select {
	case snapshot := <-views:
		s.Require().Len(snapshot, 1)
		s.Equal(model.ParticipantHandle("p_bob"), snapshot[0].Handle)
	case <-time.After(time.Second):
		s.Fail("no snapshot after heartbeat")
	}
}

func (s *ServiceSuite) TestRunHeartbeatWritesImmediatelyAndOnExit() {
	ctx, cancel := context.WithCancel(s.ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.service.RunHeartbeat(ctx, model.Presence{
			Handle: "p_alice", ListID: testList, DisplayName: "Alice", IsTyping: true,
		})
	}()

	// The first beat happens before the first tick
	s.Require().Eventually(func() bool {
		records, err := s.storage.ListPresence(s.ctx, testList)
		return err == nil && len(records) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("heartbeat loop did not stop")
	}

	// The final away write cleared transient state
	records, err := s.storage.ListPresence(s.ctx, testList)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.False(records[0].IsTyping)
}
