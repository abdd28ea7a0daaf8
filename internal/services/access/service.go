package access

import (
	"context"
	"log/slog"

	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

// Service resolves effective roles and manages the tiered password gates.
//
// Role, like every other derived value in the system, is a pure
// recomputation over the latest snapshot on every call, never cached
// state: there is no server-side arbiter to enforce it at write time.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new access Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger.With(slog.String("component", "access")),
	}
}

// ResolveRole returns the participant's effective role for a list: admin
// iff the handle appears in the admin set, else normal. The guest role is
// never derived from a handle; it is only reached through the guest-link
// entry path, and holding a guest link grants nothing here.
func (s *Service) ResolveRole(ctx context.Context, listID model.ListID, handle model.ParticipantHandle) (model.Role, error) {
	admins, err := s.storage.ListAdmins(ctx, listID)
	if err != nil {
		return "", err
	}
	for _, a := range admins {
		if a.Handle == handle {
			return model.RoleAdmin, nil
		}
	}
	return model.RoleNormal, nil
}

// ClaimAdmin registers the participant as an admin of the list.
//
// The gate applies only when the list already has at least one admin AND
// the admin password tier is enabled; otherwise the claim succeeds
// unconditionally. "First claimer wins" is an intentional low-friction
// bootstrap with a documented trust gap: anyone can claim a password-less
// list. The existence check and the admin write are not atomic, so two
// racing first claims can both succeed; that is accepted, not corrected.
func (s *Service) ClaimAdmin(ctx context.Context, listID model.ListID, handle model.ParticipantHandle, displayName, suppliedPassword string) (*model.Admin, error) {
	admins, err := s.storage.ListAdmins(ctx, listID)
	if err != nil {
		return nil, err
	}

	settings, err := s.storage.GetPasswordSettings(ctx, listID)
	if err != nil {
		return nil, err
	}

	if len(admins) > 0 && settings.Enabled(model.TierAdmin) {
		if suppliedPassword != settings.Password(model.TierAdmin) {
			return nil, model.ErrWrongPassword
		}
	}

	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Handle:      handle,
		ListID:      listID,
		DisplayName: displayName,
		ClaimedAt:   now,
	}
	if err := s.storage.SaveAdmin(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("admin claimed",
		slog.String("list", string(listID)),
		slog.String("handle", string(handle)))
	return admin, nil
}

// Admins returns the list's admin set
func (s *Service) Admins(ctx context.Context, listID model.ListID) ([]*model.Admin, error) {
	return s.storage.ListAdmins(ctx, listID)
}

// SetPassword sets one tier's password gate. A blank password disables the
// tier and clears the stored value; a non-blank one sets and enables it.
// The other two tiers are untouched: the update is a targeted partial
// write, never a full-object overwrite.
func (s *Service) SetPassword(ctx context.Context, listID model.ListID, tier model.PasswordTier, password string) error {
	if !model.ValidTier(string(tier)) {
		return model.ErrInvalidTier
	}
	if password == "" {
		return s.storage.SetTierPassword(ctx, listID, tier, "", false)
	}
	return s.storage.SetTierPassword(ctx, listID, tier, password, true)
}

// VerifyPassword checks a supplied password against a tier's gate. A
// disabled tier has no gate, so verification is vacuously satisfied.
// Comparison is exact plaintext equality by design.
func (s *Service) VerifyPassword(ctx context.Context, listID model.ListID, tier model.PasswordTier, supplied string) error {
	if !model.ValidTier(string(tier)) {
		return model.ErrInvalidTier
	}

	settings, err := s.storage.GetPasswordSettings(ctx, listID)
	if err != nil {
		return err
	}
	if !settings.Enabled(tier) {
		return nil
	}
	if supplied != settings.Password(tier) {
		return model.ErrWrongPassword
	}
	return nil
}

// PasswordSettings returns the list's password settings snapshot
func (s *Service) PasswordSettings(ctx context.Context, listID model.ListID) (model.PasswordSettings, error) {
	return s.storage.GetPasswordSettings(ctx, listID)
}

// UpdateMetadata updates the list's name and description; admin only
func (s *Service) UpdateMetadata(ctx context.Context, listID model.ListID, actor model.ParticipantHandle, meta model.ListMetadata) error {
	role, err := s.ResolveRole(ctx, listID, actor)
	if err != nil {
		return err
	}
	if !role.CanManage() {
		return model.ErrPermissionDenied
	}
	return s.storage.SaveListMetadata(ctx, listID, meta)
}
