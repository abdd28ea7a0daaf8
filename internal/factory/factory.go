package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/sharedlist-go/internal/dependencies/clock"
	"github.com/mcoot/sharedlist-go/internal/dependencies/random"
	"github.com/mcoot/sharedlist-go/internal/profile"
	"github.com/mcoot/sharedlist-go/internal/services/access"
	"github.com/mcoot/sharedlist-go/internal/services/guestlink"
	"github.com/mcoot/sharedlist-go/internal/services/identity"
	"github.com/mcoot/sharedlist-go/internal/services/list"
	"github.com/mcoot/sharedlist-go/internal/services/listid"
	"github.com/mcoot/sharedlist-go/internal/services/presence"
	"github.com/mcoot/sharedlist-go/internal/services/todo"
	"github.com/mcoot/sharedlist-go/internal/storage"
	"github.com/mcoot/sharedlist-go/internal/storage/memory"
	redisstorage "github.com/mcoot/sharedlist-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	Random  random.Random
	Profile profile.Store

	// Services
	IdentityService  *identity.Service
	IDAllocator      *listid.Service
	ListService      *list.Service
	TodoService      *todo.Service
	PresenceService  *presence.Service
	AccessService    *access.Service
	GuestLinkService *guestlink.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ProfileStore backs the local participant identity (optional)
	// If nil, an in-memory store is used
	ProfileStore profile.Store
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	rnd := random.New()

	profileStore := cfg.ProfileStore
	if profileStore == nil {
		profileStore = profile.NewMemStore()
	}

	return newWithDependencies(store, clk, rnd, profileStore, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, profileStore profile.Store, logger *slog.Logger) *App {
	identityService := identity.New(profileStore, rnd, logger)
	allocator := listid.New(rnd, clk, logger)
	listService := list.New(store, allocator, logger)
	todoService := todo.New(store, logger)
	presenceService := presence.New(store, clk, logger)
	accessService := access.New(store, logger)
	guestLinkService := guestlink.New(store, allocator, accessService, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		Profile:          profileStore,
		IdentityService:  identityService,
		IDAllocator:      allocator,
		ListService:      listService,
		TodoService:      todoService,
		PresenceService:  presenceService,
		AccessService:    accessService,
		GuestLinkService: guestLinkService,
	}
}
