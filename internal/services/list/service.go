package list

import (
	"context"
	"log/slog"

	"github.com/mcoot/sharedlist-go/internal/model"
	"github.com/mcoot/sharedlist-go/internal/services/listid"
	"github.com/mcoot/sharedlist-go/internal/storage"
)

// Service creates lists and serves their metadata
type Service struct {
	storage   storage.Storage
	allocator *listid.Service
	logger    *slog.Logger
}

// New creates a new list Service
func New(store storage.Storage, allocator *listid.Service, logger *slog.Logger) *Service {
	return &Service{
		storage:   store,
		allocator: allocator,
		logger:    logger.With(slog.String("component", "list")),
	}
}

// Create makes a new list. With a preferred id the id is validated and
// must be free; otherwise a readable id is allocated.
func (s *Service) Create(ctx context.Context, preferredID string, meta model.ListMetadata) (model.ListID, error) {
	var id string
	if preferredID != "" {
		if err := s.allocator.Validate(ctx, preferredID, s.listTaken); err != nil {
			return "", err
		}
		id = preferredID
	} else {
		allocated, err := s.allocator.Allocate(ctx, s.listTaken, listid.DefaultMaxAttempts)
		if err != nil {
			return "", err
		}
		id = allocated
	}

	if err := s.storage.CreateList(ctx, model.ListID(id), meta); err != nil {
		return "", err
	}

	s.logger.Info("list created", slog.String("list", id))
	return model.ListID(id), nil
}

// Metadata returns the list's metadata
func (s *Service) Metadata(ctx context.Context, id model.ListID) (model.ListMetadata, error) {
	return s.storage.GetListMetadata(ctx, id)
}

// Exists reports whether the list exists
func (s *Service) Exists(ctx context.Context, id model.ListID) (bool, error) {
	return s.storage.ListExists(ctx, id)
}

// listTaken is the allocator existence check for list ids
func (s *Service) listTaken(ctx context.Context, id string) (bool, error) {
	return s.storage.ListExists(ctx, model.ListID(id))
}
