// Package config loads the environment toggles of spec §6 and the two
// operator-authored YAML profile documents (MachineProfile,
// PostProcessorProfile) via a small requireEnv/getEnvOrDefault helper pair.
package config

import (
	"os"
	"strconv"
)

// DeleteMode selects the default deletion strength when a delete request
// doesn't specify one explicitly (spec §6).
type DeleteMode int

const (
	DeleteModeSoft DeleteMode = iota
	DeleteModeHard
)

// Config is the process-wide set of environment toggles spec §6 requires.
type Config struct {
	StoreRoot           string
	AttachmentRoot      string
	SignedURLSecret     string // empty disables signed URL minting/verification
	DeleteDefaultMode   DeleteMode
	DeleteAllowHard     bool
	DeleteAdminHeader   string
	DeleteRateLimitMax  int
	DeleteRateLimitWindowSec int
}

// Load reads the seven environment toggles with documented defaults.
func Load() Config {
	return Config{
		StoreRoot:                requireEnv("store_root"),
		AttachmentRoot:           requireEnv("attachment_root"),
		SignedURLSecret:          getEnvOrDefault("signed_url_secret", ""),
		DeleteDefaultMode:        parseDeleteMode(getEnvOrDefault("delete_default_mode", "soft")),
		DeleteAllowHard:          getEnvBoolOrDefault("delete_allow_hard", false),
		DeleteAdminHeader:        getEnvOrDefault("delete_admin_header_name", "X-Admin"),
		DeleteRateLimitMax:       getEnvIntOrDefault("delete_rate_limit_max", 10),
		DeleteRateLimitWindowSec: getEnvIntOrDefault("delete_rate_limit_window_sec", 60),
	}
}

func parseDeleteMode(s string) DeleteMode {
	if s == "hard" {
		return DeleteModeHard
	}
	return DeleteModeSoft
}

// requireEnv reads a required environment variable and panics if it is not
// set.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("config: required environment variable " + key + " is not set")
	}
	return val
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
