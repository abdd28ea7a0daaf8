package listid

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mcoot/sharedlist-go/internal/dependencies/clock"
	"github.com/mcoot/sharedlist-go/internal/dependencies/random"
	"github.com/mcoot/sharedlist-go/internal/model"
)

const (
	// DefaultMaxAttempts bounds collision retries before falling back to
	// a timestamp-suffixed id
	DefaultMaxAttempts = 10

	// MinIDLength and MaxIDLength bound acceptable identifiers
	MinIDLength = 3
	MaxIDLength = 100
)

// legacyAccented is the fixed accented-character set accepted for
// backward compatibility with an older id format
const legacyAccented = "àáâäèéêëìíîïòóôöùúûüñç"

// TakenFunc reports whether a candidate id is already in use
type TakenFunc func(ctx context.Context, id string) (bool, error)

// Service generates short, memorable, collision-checked identifiers for
// lists and guest links
type Service struct {
	random random.Random
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new id allocator
func New(rnd random.Random, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		random: rnd,
		clock:  clk,
		logger: logger.With(slog.String("component", "listid")),
	}
}

// Allocate generates a word-word-word id, retrying on collision up to
// maxAttempts. On exhaustion it degrades to a short candidate with a
// base-36 timestamp suffix to guarantee termination, rather than failing.
func (s *Service) Allocate(ctx context.Context, taken TakenFunc, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := s.candidate()
		inUse, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}

	// Collision exhaustion: suffix guarantees uniqueness in practice and
	// always terminates
	fallback := s.random.Pick(words) + "-" + strconv.FormatInt(s.clock.NowMillis(), 36)
	s.logger.Warn("id allocation exhausted retries, using fallback",
		slog.String("id", fallback),
		slog.Int("attempts", maxAttempts))
	return fallback, nil
}

// candidate builds a word-word-word id from the fixed dictionary
func (s *Service) candidate() string {
	return s.random.Pick(words) + "-" + s.random.Pick(words) + "-" + s.random.Pick(words)
}

// ValidateFormat checks an id's shape without touching the store
func ValidateFormat(id string) error {
	if len(id) < MinIDLength || len(id) > MaxIDLength {
		return model.ErrInvalidListID
	}
	for _, r := range id {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' {
			continue
		}
		if strings.ContainsRune(legacyAccented, r) {
			continue
		}
		return model.ErrInvalidListID
	}
	return nil
}

// Validate checks an id's shape and that it is not already taken
func (s *Service) Validate(ctx context.Context, id string, taken TakenFunc) error {
	if err := ValidateFormat(id); err != nil {
		return err
	}
	inUse, err := taken(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return model.ErrListExists
	}
	return nil
}
