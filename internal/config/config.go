// Package config loads the host's runtime configuration from a JSONC
// file, following the same precedence chain and hujson-standardize-then-
// json-unmarshal pattern as calvinalkan-agent-task's config loader:
// exactly one file is read over the built-in defaults, chosen as the
// explicit path if given, else the GZSET_CONFIG environment variable
// path if set, else a default path.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds the host's tunable runtime parameters.
type Config struct {
	// ArenaPages is the initial page count for each ScoreSet's arena.
	ArenaPages int `json:"arena_pages"`
	// MaxKeys is a key-count limit in the form Keyspace.GetOrCreateBounded
	// takes: creating a new key is refused once that many exist. 0 means
	// unbounded. cmd/gzset-bench does not apply it.
	MaxKeys int `json:"max_keys"`
	// ScanBatchCap bounds how many items a single SCAN-cursor response
	// may return, enforced by the host, not the core.
	ScanBatchCap int `json:"scan_batch_cap"`
}

// EnvVar names the environment variable carrying an explicit config path.
const EnvVar = "GZSET_CONFIG"

// DefaultPath is consulted when neither an explicit path nor EnvVar is
// set.
const DefaultPath = "gzset.jsonc"

var errEmptyConfigFile = errors.New("config: file is empty")

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ArenaPages:   1,
		MaxKeys:      0,
		ScanBatchCap: 1000,
	}
}

// Load resolves the config path (explicitPath, then $GZSET_CONFIG, then
// DefaultPath) and merges whatever file it finds over the defaults. A
// missing file at the resolved path is not an error unless explicitPath
// was given directly.
func Load(explicitPath string) (Config, error) {
	cfg := Default()

	path := explicitPath
	mustExist := explicitPath != ""
	if path == "" {
		path = os.Getenv(EnvVar)
		mustExist = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	overlay, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return merge(cfg, overlay), nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}
	if len(standardized) == 0 {
		return Config{}, errEmptyConfigFile
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.ArenaPages != 0 {
		base.ArenaPages = overlay.ArenaPages
	}
	if overlay.MaxKeys != 0 {
		base.MaxKeys = overlay.MaxKeys
	}
	if overlay.ScanBatchCap != 0 {
		base.ScanBatchCap = overlay.ScanBatchCap
	}
	return base
}

// Path resolves the same precedence Load uses, without reading the file,
// reporting where config would come from.
func Path(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv(EnvVar); envPath != "" {
		return envPath
	}
	abs, err := filepath.Abs(DefaultPath)
	if err != nil {
		return DefaultPath
	}
	return abs
}
