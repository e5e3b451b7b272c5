// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the application configuration materialized from viper.
type Settings struct {
	DatabasePath      string
	ListenAddr        string
	AugmentProvider   string
	AugmentCacheTTL   time.Duration
	RecommendCacheCap int
}

// Load reads the active viper state into typed settings, applying
// defaults for anything unset.
func Load() Settings {
	s := Settings{
		DatabasePath:      viper.GetString("database.path"),
		ListenAddr:        viper.GetString("server.listen"),
		AugmentProvider:   viper.GetString("augment.provider"),
		AugmentCacheTTL:   viper.GetDuration("augment.cache_ttl"),
		RecommendCacheCap: viper.GetInt("cache.capacity"),
	}

	if s.DatabasePath == "" {
		s.DatabasePath = "$HOME/.local/share/cardwise/cardwise.db"
	}
	s.DatabasePath = ExpandPath(s.DatabasePath)

	if s.ListenAddr == "" {
		s.ListenAddr = ":8080"
	}
	if s.AugmentCacheTTL == 0 {
		s.AugmentCacheTTL = 5 * time.Minute
	}

	return s
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
