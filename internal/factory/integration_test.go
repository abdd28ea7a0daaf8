package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/guestlink"
	"github.com/mcoot/sharedlist-go/internal/services/todo"
)

// IntegrationSuite drives whole flows through the wired services against
// in-memory storage
type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) createList(id string) model.ListID {
	listID, err := s.app.ListService.Create(s.ctx, id, model.ListMetadata{})
	s.Require().NoError(err)
	return listID
}

func (s *IntegrationSuite) TestTodoFlow() {
	listID := s.createList("errand-day-list")
	alice := todo.Author{Handle: "p_alice", Name: "Alice"}
	bob := todo.Author{Handle: "p_bob", Name: "Bob"}

	created, err := s.app.TodoService.Add(s.ctx, listID, "  post the letter  ", alice)
	s.Require().NoError(err)
	s.Equal("post the letter", created.Text)
	s.Equal(s.app.MockClock.NowMillis(), created.CreatedAt)

	// Bob completes it
	s.app.MockClock.Advance(time.Minute)
	s.Require().NoError(s.app.TodoService.Toggle(s.ctx, listID, created.ID, true, bob))

	snapshot, err := s.app.TodoService.Snapshot(s.ctx, listID)
	s.Require().NoError(err)
	s.Require().Len(snapshot.Active, 1)
	s.True(snapshot.Active[0].Completed)
	s.Require().NotNil(snapshot.Active[0].CompletedBy)
	s.Equal(model.ParticipantHandle("p_bob"), *snapshot.Active[0].CompletedBy)
	// The creation group is untouched by the toggle
	s.Equal(model.ParticipantHandle("p_alice"), snapshot.Active[0].CreatedBy)

	// Alice unchecks it again, which clears the completion group
	s.Require().NoError(s.app.TodoService.Toggle(s.ctx, listID, created.ID, false, alice))
	snapshot, err = s.app.TodoService.Snapshot(s.ctx, listID)
	s.Require().NoError(err)
	s.False(snapshot.Active[0].Completed)
	s.Nil(snapshot.Active[0].CompletedAt)

	// Soft delete, restore, purge
	s.Require().NoError(s.app.TodoService.SoftDelete(s.ctx, listID, created.ID, bob))
	snapshot, err = s.app.TodoService.Snapshot(s.ctx, listID)
	s.Require().NoError(err)
	s.Empty(snapshot.Active)
	s.Require().Len(snapshot.Trash, 1)

	s.Require().NoError(s.app.TodoService.Restore(s.ctx, listID, created.ID, alice))
	snapshot, err = s.app.TodoService.Snapshot(s.ctx, listID)
	s.Require().NoError(err)
	s.Require().Len(snapshot.Active, 1)
	s.Require().NotNil(snapshot.Active[0].RestoredBy)

	s.Require().NoError(s.app.TodoService.Purge(s.ctx, listID, created.ID))
	snapshot, err = s.app.TodoService.Snapshot(s.ctx, listID)
	s.Require().NoError(err)
	s.Empty(snapshot.Active)
	s.Empty(snapshot.Trash)
}

func (s *IntegrationSuite) TestPresenceAging() {
	listID := s.createList("presence-aging-list")

	s.Require().NoError(s.app.PresenceService.Heartbeat(s.ctx, model.Presence{
		Handle: "p_alice", ListID: listID, DisplayName: "Alice",
	}))

	// Three minutes later Alice has gone quiet and Bob arrives
	s.app.MockClock.Advance(3 * time.Minute)
	s.Require().NoError(s.app.PresenceService.Heartbeat(s.ctx, model.Presence{
		Handle: "p_bob", ListID: listID, DisplayName: "Bob",
	}))

	views, err := s.app.PresenceService.Snapshot(s.ctx, listID, "p_bob")
	s.Require().NoError(err)
	s.Require().Len(views, 2)

	// Self first, then by status
	s.Equal(model.ParticipantHandle("p_bob"), views[0].Handle)
	s.True(views[0].IsSelf)
	s.Equal(model.StatusOnline, views[0].Status)
	s.Equal(model.ParticipantHandle("p_alice"), views[1].Handle)
	s.Equal(model.StatusInactive, views[1].Status)

	// Past the offline threshold everyone ages out
	s.app.MockClock.Advance(6 * time.Minute)
	views, err = s.app.PresenceService.Snapshot(s.ctx, listID, "p_bob")
	s.Require().NoError(err)
	for _, v := range views {
		s.Equal(model.StatusOffline, v.Status)
	}
}

func (s *IntegrationSuite) TestAdminBootstrapAndPasswordGate() {
	listID := s.createList("admin-gate-list")

	// Fresh list: no admins, everyone normal
	role, err := s.app.AccessService.ResolveRole(s.ctx, listID, "p_alice")
	s.Require().NoError(err)
	s.Equal(model.RoleNormal, role)

	// First claim is open regardless of password settings
	_, err = s.app.AccessService.ClaimAdmin(s.ctx, listID, "p_alice", "Alice", "")
	s.Require().NoError(err)

	role, err = s.app.AccessService.ResolveRole(s.ctx, listID, "p_alice")
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, role)

	// Gate the admin tier and try to claim with a wrong password
	s.Require().NoError(s.app.AccessService.SetPassword(s.ctx, listID, model.TierAdmin, "hunter2"))

	_, err = s.app.AccessService.ClaimAdmin(s.ctx, listID, "p_bob", "Bob", "wrong")
	s.ErrorIs(err, model.ErrWrongPassword)

	_, err = s.app.AccessService.ClaimAdmin(s.ctx, listID, "p_bob", "Bob", "hunter2")
	s.Require().NoError(err)

	admins, err := s.app.AccessService.Admins(s.ctx, listID)
	s.Require().NoError(err)
	s.Len(admins, 2)
}

func (s *IntegrationSuite) TestGuestLinkExpiry() {
	listID := s.createList("expiring-link-list")
	_, err := s.app.AccessService.ClaimAdmin(s.ctx, listID, "p_alice", "Alice", "")
	s.Require().NoError(err)

	s.app.MockRandom.QueuePick("sunny", "garden", "gate")
	days := 1
	link, err := s.app.GuestLinkService.Create(s.ctx, listID, "p_alice", guestlink.CreateParams{
		Name:          "weekend guests",
		ExpiresInDays: &days,
	})
	s.Require().NoError(err)
	s.Equal(model.GuestLinkID("sunny-garden-gate"), link.ID)

	// Valid right up to the deadline
	gotList, err := s.app.GuestLinkService.Validate(s.ctx, link.ID)
	s.Require().NoError(err)
	s.Equal(listID, gotList)

	// One day later the link has expired, reported uniformly as invalid
	s.app.MockClock.Advance(24*time.Hour + time.Second)
	_, err = s.app.GuestLinkService.Validate(s.ctx, link.ID)
	s.ErrorIs(err, model.ErrInvalidGuestLink)

	// Admins still see the true state
	links, err := s.app.GuestLinkService.Links(s.ctx, listID, "p_alice")
	s.Require().NoError(err)
	s.Require().Len(links, 1)
	s.Equal(model.LinkExpired, links[0].State(s.app.MockClock.NowMillis()))
}

func (s *IntegrationSuite) TestGuestLinkRevocationIsTerminal() {
	listID := s.createList("revoked-link-list")
	_, err := s.app.AccessService.ClaimAdmin(s.ctx, listID, "p_alice", "Alice", "")
	s.Require().NoError(err)

	s.app.MockRandom.QueuePick("quiet", "harbor", "door")
	link, err := s.app.GuestLinkService.Create(s.ctx, listID, "p_alice", guestlink.CreateParams{})
	s.Require().NoError(err)

	s.Require().NoError(s.app.GuestLinkService.Revoke(s.ctx, link.ID, "p_alice"))

	_, err = s.app.GuestLinkService.Validate(s.ctx, link.ID)
	s.ErrorIs(err, model.ErrInvalidGuestLink)

	// The record is gone; an edit cannot resurrect it
	_, err = s.app.GuestLinkService.Edit(s.ctx, link.ID, "p_alice", guestlink.EditParams{Name: "zombie"})
	s.Error(err)
}

func (s *IntegrationSuite) TestGuestLinkCannotBeManagedByNonAdmin() {
	listID := s.createList("locked-link-list")
	_, err := s.app.AccessService.ClaimAdmin(s.ctx, listID, "p_alice", "Alice", "")
	s.Require().NoError(err)

	_, err = s.app.GuestLinkService.Create(s.ctx, listID, "p_mallory", guestlink.CreateParams{})
	s.ErrorIs(err, model.ErrPermissionDenied)

	_, err = s.app.GuestLinkService.Links(s.ctx, listID, "p_mallory")
	s.ErrorIs(err, model.ErrPermissionDenied)
}

func (s *IntegrationSuite) TestIdentityProvisioning() {
	handle, err := s.app.IdentityService.EnsureHandle()
	s.Require().NoError(err)
	s.NotEmpty(handle)

	// Stable across calls
	again, err := s.app.IdentityService.EnsureHandle()
	s.Require().NoError(err)
	s.Equal(handle, again)

	name, err := s.app.IdentityService.EnsureDisplayName()
	s.Require().NoError(err)
	s.NotEmpty(name)
}
