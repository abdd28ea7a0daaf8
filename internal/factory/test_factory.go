package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/sharedlist-go/internal/dependencies/mocks"
	"github.com/mcoot/sharedlist-go/internal/profile"
	"github.com/mcoot/sharedlist-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MemProfile *profile.MemStore
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	memProfile := profile.NewMemStore()
	store := memory.New(mockClock)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, memProfile, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MemProfile: memProfile,
	}
}
