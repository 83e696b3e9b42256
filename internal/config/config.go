package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/TuftsBCB/pdbmissing/pdb"
	"github.com/TuftsBCB/pdbmissing/source"
)

// Config is the configuration of the pdbmissingd server, read from the
// environment.
type Config struct {
	Port string

	// Structure fetching
	Mirrors      []string
	FetchTimeout time.Duration

	// Upload limits. MaxDecodedBytes also caps what a fetched or uploaded
	// file may decompress to.
	MaxUploadBytes  int64
	MaxDecodedBytes int64

	// Reading structures
	Representative string

	LogLevel slog.Level
}

// Load reads the configuration from the environment. Unset or unparseable
// variables get their defaults.
func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		Mirrors:      envList("PDB_MIRRORS", source.DefaultMirrors),
		FetchTimeout: envDuration("FETCH_TIMEOUT", 30*time.Second),

		MaxUploadBytes:  envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB
		MaxDecodedBytes: envInt64("MAX_DECODED_BYTES", source.DefaultMaxDecoded),

		Representative: envOr("REPRESENTATIVE_ATOM", pdb.DefaultRepresentative),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.MaxDecodedBytes <= 0 {
		cfg.MaxDecodedBytes = source.DefaultMaxDecoded
	}

	return cfg
}

// Validate reports the first setting that the server cannot run with.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("PORT must be a port number, not '%s'", c.Port)
	}
	if len(c.Mirrors) == 0 {
		return fmt.Errorf("PDB_MIRRORS must name at least one mirror")
	}
	for _, m := range c.Mirrors {
		if err := source.ValidMirror(m); err != nil {
			return fmt.Errorf("PDB_MIRRORS: %w", err)
		}
	}
	if len(c.Representative) == 0 || len(c.Representative) > 4 {
		return fmt.Errorf("REPRESENTATIVE_ATOM must be an atom name of "+
			"1-4 characters, not '%s'", c.Representative)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList reads a comma separated list. Empty items are dropped.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		if l, err := ParseLevel(v); err == nil {
			return l
		}
	}
	return fallback
}

// ParseLevel understands the slog level names plus "critical".
func ParseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "critical") {
		return pdb.LevelCritical, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return l, nil
}

// ReplaceLevel is a slog.HandlerOptions.ReplaceAttr that names
// pdb.LevelCritical.
func ReplaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if l, ok := a.Value.Any().(slog.Level); ok && l >= pdb.LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}
