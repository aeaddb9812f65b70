// Package config loads squadcov's optional config file. The file is HuJSON
// (JSON with comments and trailing commas), so teams can annotate why a
// particular scheme or destination is pinned.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config carries defaults for the run command's toolchain flags. Flags given
// on the command line override whatever is set here.
type Config struct {
	Workspace   string `json:"workspace,omitempty"`
	Scheme      string `json:"scheme,omitempty"`
	Destination string `json:"destination,omitempty"`
	ProjectPath string `json:"project_path,omitempty"`
}

// Default returns the built-in defaults: a simulator destination that works
// on a stock Xcode install, everything else unset.
func Default() Config {
	return Config{
		Destination: "platform=iOS Simulator,name=iPhone 14,OS=17.0.1",
	}
}

// Path returns the config file location: $XDG_CONFIG_HOME/squadcov/config.json,
// falling back to ~/.config/squadcov/config.json. Empty when no home
// directory can be determined.
func Path() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "squadcov", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "squadcov", "config.json")
}

// Load reads the config file at path, layered over the defaults. A missing
// file is not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
