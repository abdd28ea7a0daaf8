package cli

import (
	"os"
	"path/filepath"

	"github.com/mcoot/sharedlist-go/internal/profile"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	ProfilePath string
	GuestLink   string
	DisplayName string
	Output      string
	Verbose     bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("SHAREDLIST_SERVER", "http://localhost:8080"),
		ProfilePath: getEnvOrDefault("SHAREDLIST_PROFILE", defaultProfilePath()),
		GuestLink:   os.Getenv("SHAREDLIST_GUEST_LINK"),
		Output:      "text",
		Verbose:     false,
	}
}

func defaultProfilePath() string {
	path, err := profile.DefaultPath()
	if err != nil {
		return filepath.Join(".sharedlist", "profile.json")
	}
	return path
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
