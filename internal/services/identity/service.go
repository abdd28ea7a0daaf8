package identity

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/sharedlist-go/internal/dependencies/random"
	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/profile"
)

// Service issues the local participant's pseudo-identity: a stable opaque
// handle plus a persisted display name and presence color. It only ever
// touches the local profile store; nothing here reaches the replicated
// store. If the profile store is unavailable the caller must surface a
// degraded status and must not start presence or todo engines, both of
// which require a handle.
type Service struct {
	profile profile.Store
	random  random.Random
	logger  *slog.Logger
}

// New creates a new identity Service
func New(store profile.Store, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		profile: store,
		random:  rnd,
		logger:  logger.With(slog.String("component", "identity")),
	}
}

// EnsureHandle returns the cached participant handle, minting and
// persisting a new one on first use. The handle is opaque and stable for
// the lifetime of the profile; it is not a verified identity.
func (s *Service) EnsureHandle() (model.ParticipantHandle, error) {
	cached, ok, err := s.profile.Get(profile.KeyHandle)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrNotConfigured, err)
	}
	if ok && cached != "" {
		return model.ParticipantHandle(cached), nil
	}

	handle := uuid.NewString()
	if err := s.profile.Set(profile.KeyHandle, handle); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrNotConfigured, err)
	}

	s.logger.Info("minted participant handle", slog.String("handle", handle))
	return model.ParticipantHandle(handle), nil
}

// EnsureDisplayName returns the cached display name, synthesizing a
// random adjective+noun one on first use
func (s *Service) EnsureDisplayName() (string, error) {
	cached, ok, err := s.profile.Get(profile.KeyDisplayName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrNotConfigured, err)
	}
	if ok && cached != "" {
		return cached, nil
	}

	name := s.random.Pick(adjectives) + " " + s.random.Pick(nouns)
	if err := s.profile.Set(profile.KeyDisplayName, name); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrNotConfigured, err)
	}
	return name, nil
}

// SetDisplayName overrides the persisted display name
func (s *Service) SetDisplayName(name string) error {
	return s.profile.Set(profile.KeyDisplayName, name)
}

// EnsureColor returns the cached presence color, picking a random one
// from the fixed palette on first use
func (s *Service) EnsureColor() (string, error) {
	cached, ok, err := s.profile.Get(profile.KeyColor)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrNotConfigured, err)
	}
	if ok && cached != "" {
		return cached, nil
	}

	color := s.random.Pick(colors)
	if err := s.profile.Set(profile.KeyColor, color); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrNotConfigured, err)
	}
	return color, nil
}
