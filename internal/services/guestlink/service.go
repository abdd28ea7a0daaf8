package guestlink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/access"
	"github.com/mcoot/sharedlist-go/internal/services/listid"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

const millisPerDay = 24 * 60 * 60 * 1000

// CreateParams are the optional fields of a new guest link. Only fields
// actually supplied are written, so an unset field stays distinguishable
// from an explicitly cleared one.
type CreateParams struct {
	Name             string
	GuestDisplayName string
	Password         string
	// ExpiresInDays, when set, puts an absolute expiry deadline on the
	// link; nil means the link never expires
	ExpiresInDays *int
}

// EditParams overwrite a link's editable fields. ExpiresInDays is always
// recomputed fresh from now, never added to the previous deadline.
type EditParams struct {
	Name             string
	GuestDisplayName string
	Password         string
	ExpiresInDays    *int
}

// Service manages the guest-link lifecycle: capability records granting
// read+toggle access to a single list without an account
type Service struct {
	storage   storage.Storage
	allocator *listid.Service
	access    *access.Service
	logger    *slog.Logger
}

// New creates a new guest link Service
func New(store storage.Storage, allocator *listid.Service, accessService *access.Service, logger *slog.Logger) *Service {
	return &Service{
		storage:   store,
		allocator: allocator,
		access:    accessService,
		logger:    logger.With(slog.String("component", "guestlink")),
	}
}

// Create allocates and stores a new guest link for the list; admin only
func (s *Service) Create(ctx context.Context, listID model.ListID, actor model.ParticipantHandle, params CreateParams) (*model.GuestLink, error) {
	if err := s.requireAdmin(ctx, listID, actor); err != nil {
		return nil, err
	}

	id, err := s.allocator.Allocate(ctx, s.linkTaken, listid.DefaultMaxAttempts)
	if err != nil {
		return nil, err
	}

	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return nil, err
	}

	link := &model.GuestLink{
		ID:               model.GuestLinkID(id),
		ListID:           listID,
		CreatedBy:        actor,
		CreatedAt:        now,
		Revoked:          false,
		Name:             params.Name,
		GuestDisplayName: params.GuestDisplayName,
		Password:         params.Password,
		AccessCount:      0,
	}
	if params.ExpiresInDays != nil {
		expires := now + int64(*params.ExpiresInDays)*millisPerDay
		link.ExpiresAt = &expires
	}

	if err := s.storage.SaveGuestLink(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("guest link created",
		slog.String("list", string(listID)),
		slog.String("link", id))
	return link, nil
}

// Edit overwrites the link's editable fields and stamps UpdatedAt; admin
// only. A revoked link no longer exists and therefore cannot be edited
// back to life.
func (s *Service) Edit(ctx context.Context, linkID model.GuestLinkID, actor model.ParticipantHandle, params EditParams) (*model.GuestLink, error) {
	link, err := s.storage.GetGuestLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAdmin(ctx, link.ListID, actor); err != nil {
		return nil, err
	}

	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return nil, err
	}

	link.Name = params.Name
	link.GuestDisplayName = params.GuestDisplayName
	link.Password = params.Password
	if params.ExpiresInDays != nil {
		expires := now + int64(*params.ExpiresInDays)*millisPerDay
		link.ExpiresAt = &expires
	} else {
		link.ExpiresAt = nil
	}
	link.UpdatedAt = &now

	if err := s.storage.SaveGuestLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// ToggleDisabled flips the reversible disabled flag without touching
// Revoked; admin only
func (s *Service) ToggleDisabled(ctx context.Context, linkID model.GuestLinkID, actor model.ParticipantHandle, disabled bool) error {
	link, err := s.storage.GetGuestLink(ctx, linkID)
	if err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, link.ListID, actor); err != nil {
		return err
	}

	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return err
	}
	link.Disabled = disabled
	link.UpdatedAt = &now
	return s.storage.SaveGuestLink(ctx, link)
}

// Revoke removes the link record outright; admin only. Irreversible: any
// client still holding the link is denied on its next validation.
func (s *Service) Revoke(ctx context.Context, linkID model.GuestLinkID, actor model.ParticipantHandle) error {
	link, err := s.storage.GetGuestLink(ctx, linkID)
	if err != nil {
		if errors.Is(err, model.ErrGuestLinkNotFound) {
			return nil
		}
		return err
	}
	if err := s.requireAdmin(ctx, link.ListID, actor); err != nil {
		return err
	}

	if err := s.storage.DeleteGuestLink(ctx, linkID); err != nil {
		return err
	}
	s.logger.Info("guest link revoked",
		slog.String("list", string(link.ListID)),
		slog.String("link", string(linkID)))
	return nil
}

// Validate resolves a link id to its list if the link currently grants
// access. Every failure reason collapses to the same error: the guest is
// told only that the link is invalid, while the sub-reason is logged for
// admins. On success the advisory access counters are bumped best-effort;
// a lost update there is acceptable.
func (s *Service) Validate(ctx context.Context, linkID model.GuestLinkID) (model.ListID, error) {
	link, err := s.storage.GetGuestLink(ctx, linkID)
	if err != nil {
		if errors.Is(err, model.ErrGuestLinkNotFound) {
			s.logger.Info("guest link rejected",
				slog.String("link", string(linkID)),
				slog.String("reason", "absent"))
			return "", model.ErrInvalidGuestLink
		}
		return "", err
	}

	now, err := s.storage.ServerNow(ctx)
	if err != nil {
		return "", err
	}

	if state := link.State(now); state != model.LinkActive {
		s.logger.Info("guest link rejected",
			slog.String("link", string(linkID)),
			slog.String("reason", string(state)))
		return "", model.ErrInvalidGuestLink
	}

	link.AccessCount++
	link.LastAccessAt = &now
	if err := s.storage.SaveGuestLink(ctx, link); err != nil {
		s.logger.Warn("guest link access accounting failed",
			slog.String("link", string(linkID)),
			slog.Any("error", err))
	}

	return link.ListID, nil
}

// Get fetches a guest link record. Absent links report ErrInvalidGuestLink
// so callers cannot distinguish revoked from never-existed.
func (s *Service) Get(ctx context.Context, linkID model.GuestLinkID) (*model.GuestLink, error) {
	link, err := s.storage.GetGuestLink(ctx, linkID)
	if err != nil {
		if errors.Is(err, model.ErrGuestLinkNotFound) {
			return nil, model.ErrInvalidGuestLink
		}
		return nil, err
	}
	return link, nil
}

// VerifyPassword checks a supplied password against the link's own gate.
// A link without a password has no gate.
func (s *Service) VerifyPassword(ctx context.Context, linkID model.GuestLinkID, supplied string) error {
	link, err := s.storage.GetGuestLink(ctx, linkID)
	if err != nil {
		if errors.Is(err, model.ErrGuestLinkNotFound) {
			return model.ErrInvalidGuestLink
		}
		return err
	}
	if link.Password == "" {
		return nil
	}
	if supplied != link.Password {
		return model.ErrWrongPassword
	}
	return nil
}

// Links returns the list's guest links; admin only
func (s *Service) Links(ctx context.Context, listID model.ListID, actor model.ParticipantHandle) ([]*model.GuestLink, error) {
	if err := s.requireAdmin(ctx, listID, actor); err != nil {
		return nil, err
	}
	return s.storage.ListGuestLinks(ctx, listID)
}

func (s *Service) requireAdmin(ctx context.Context, listID model.ListID, actor model.ParticipantHandle) error {
	role, err := s.access.ResolveRole(ctx, listID, actor)
	if err != nil {
		return err
	}
	if !role.CanManage() {
		return model.ErrPermissionDenied
	}
	return nil
}

// linkTaken is the allocator existence check for guest link ids
func (s *Service) linkTaken(ctx context.Context, id string) (bool, error) {
	_, err := s.storage.GetGuestLink(ctx, model.GuestLinkID(id))
	if err != nil {
		if errors.Is(err, model.ErrGuestLinkNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
