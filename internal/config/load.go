package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// appName is the directory/file namespace used under the user's config
// and data home, matching original_source's
// directories::ProjectDirs::from("", "", "openniri").
const appName = "openniri"

// configFileName is the file inside the openniri config directory.
const configFileName = "config.toml"

// ConfigPaths returns the ordered list of candidate config file paths,
// most-preferred first, mirroring original_source's config_paths():
// the XDG config home takes precedence, then $HOME/.config, then the
// current working directory.
func ConfigPaths() []string {
	var paths []string
	if xdgPath, err := xdg.ConfigFile(filepath.Join(appName, configFileName)); err == nil {
		paths = append(paths, xdgPath)
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", appName, configFileName)
		if len(paths) == 0 || paths[0] != p {
			paths = append(paths, p)
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, configFileName))
	}
	return paths
}

// Load searches ConfigPaths() in order and parses the first file found.
// If none exist, it returns Default() with no error, matching
// original_source's Config::load() fallback-to-defaults behavior.
func Load() (Config, string, []Warning, error) {
	for _, p := range ConfigPaths() {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, "", nil, fmt.Errorf("config: read %s: %w", p, err)
		}
		cfg, warnings, err := parse(data)
		if err != nil {
			return Config{}, "", nil, fmt.Errorf("config: parse %s: %w", p, err)
		}
		return cfg, p, warnings, nil
	}
	cfg := Default()
	return cfg, "", nil, nil
}

// LoadFromPath parses the config file at path directly, bypassing the
// search order. Used by the CLI's --config override and by tests.
func LoadFromPath(path string) (Config, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(data)
}

// parse decodes TOML into a default-seeded Config (so a partial file
// only overrides the fields it mentions) and clamps the result.
func parse(data []byte) (Config, []Warning, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("decode toml: %w", err)
	}
	if cfg.Hotkeys == nil {
		cfg.Hotkeys = defaultHotkeys()
	}
	warnings := cfg.Validate()
	return cfg, warnings, nil
}

// Save marshals cfg as TOML and writes it to path, creating parent
// directories as needed. Used by cmd/openniric's "init" command.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create directory for %s: %w", path, err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode toml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// DefaultWritePath returns the path Save should target when the CLI's
// "init" command is not given an explicit --output, namely the first
// (most-preferred) entry of ConfigPaths().
func DefaultWritePath() (string, error) {
	paths := ConfigPaths()
	if len(paths) == 0 {
		return "", fmt.Errorf("config: no candidate config path available")
	}
	return paths[0], nil
}
