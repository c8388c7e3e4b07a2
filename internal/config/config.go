package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/nexus/internal/ignore"
)

// Default values used when the config file leaves a field unset.
const (
	DefaultScanDepth = 3
	DefaultMaxAge    = 30 * time.Second
	DefaultSort      = "path"
	DefaultFormat    = "table"

	localFileName = ".nexus.toml"
)

// DefaultIgnoreDirs lists the directory names skipped during discovery
// when the config does not set ignore_dirs.
var DefaultIgnoreDirs = []string{
	"node_modules",
	"target",
	"venv",
	".build",
	"build",
	"dist",
	".next",
}

// Config holds the nexus configuration.
type Config struct {
	ScanDepth      int           `toml:"scan_depth"`
	Root           string        `toml:"root"`
	IgnoreDirs     []string      `toml:"ignore_dirs"`
	IgnorePatterns []string      `toml:"ignore_patterns"`
	Workers        int           `toml:"workers"`
	Display        DisplayConfig `toml:"display"`
	Cache          CacheConfig   `toml:"cache"`

	// Source is the file the config was loaded from, empty for defaults.
	Source string `toml:"-"`
}

// DisplayConfig holds output defaults.
type DisplayConfig struct {
	DefaultVerbose bool   `toml:"default_verbose"`
	ShowHooks      bool   `toml:"show_hooks"`
	DefaultSort    string `toml:"default_sort"`   // "path", "status", "branch" or "health"
	DefaultFormat  string `toml:"default_format"` // "table", "json" or "yaml"
	Theme          string `toml:"theme"`          // preset name, see ValidThemeNames
	ThemeMode      string `toml:"theme_mode"`     // "auto", "light" or "dark"
	Nerdfont       bool   `toml:"nerdfont"`
}

// CacheConfig holds scan cache settings.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	MaxAge  string `toml:"max_age"` // Go duration, e.g. "30s"

	maxAge time.Duration
}

// MaxAgeDuration returns the parsed max_age, or DefaultMaxAge when unset.
func (c CacheConfig) MaxAgeDuration() time.Duration {
	if c.maxAge > 0 {
		return c.maxAge
	}
	return DefaultMaxAge
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ScanDepth:  DefaultScanDepth,
		IgnoreDirs: append([]string(nil), DefaultIgnoreDirs...),
		Display: DisplayConfig{
			DefaultSort:   DefaultSort,
			DefaultFormat: DefaultFormat,
		},
		Cache: CacheConfig{MaxAge: DefaultMaxAge.String(), maxAge: DefaultMaxAge},
	}
}

// IgnoreRules returns the discovery rules for this config: ignore_dirs
// pruned by exact directory name, then ignore_patterns. A configured
// ignore_dirs replaces DefaultIgnoreDirs entirely.
func (c *Config) IgnoreRules() ignore.Rules {
	return ignore.New(c.IgnorePatterns...).WithDirs(c.IgnoreDirs...)
}

// RootDir returns the configured default scan root with ~ expanded,
// or "." when unset.
func (c *Config) RootDir() string {
	if c.Root == "" {
		return "."
	}
	root, err := expandPath(c.Root)
	if err != nil {
		return c.Root
	}
	return root
}

// ValidatePath checks that a path is absolute or starts with ~.
// Relative paths like "." or ".." are rejected since they depend on
// the directory nexus is invoked from.
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if path == "~" || (len(path) >= 2 && path[:2] == "~/") {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be an absolute path or start with ~ (got %q)", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// configPath returns the path of the user config file written by Init.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nexus", "config.toml"), nil
}

// SearchPaths returns the config file candidates in priority order:
// ./.nexus.toml in dir, ~/.config/nexus/config.toml, ~/.nexus.toml.
func SearchPaths(dir string) []string {
	paths := []string{filepath.Join(dir, localFileName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "nexus", "config.toml"),
			filepath.Join(home, localFileName),
		)
	}
	return paths
}

// Load reads the first config file found in SearchPaths(dir).
// Returns Default() if none exists (no error).
// Returns error only if a file exists but is invalid.
func Load(dir string) (Config, error) {
	for _, path := range SearchPaths(dir) {
		cfg, err := LoadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

// LoadFile reads and validates a single config file. Fields missing
// from the file keep their default values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), err
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Source = path

	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ScanDepth <= 0 {
		return fmt.Errorf("scan_depth must be greater than 0 (got %d)", c.ScanDepth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative (got %d)", c.Workers)
	}
	if err := ValidatePath(c.Root, "root"); err != nil {
		return err
	}
	if err := validateEnum(c.Display.DefaultSort, "display.default_sort", ValidSortModes); err != nil {
		return err
	}
	if err := validateEnum(c.Display.DefaultFormat, "display.default_format", ValidFormats); err != nil {
		return err
	}
	if err := validateEnum(c.Display.Theme, "display.theme", ValidThemeNames); err != nil {
		return err
	}
	if err := validateEnum(c.Display.ThemeMode, "display.theme_mode", ValidThemeModes); err != nil {
		return err
	}
	if err := validateDirNames(c.IgnoreDirs, "ignore_dirs"); err != nil {
		return err
	}
	if err := validatePatterns(c.IgnorePatterns, "ignore_patterns"); err != nil {
		return err
	}

	if c.Cache.MaxAge == "" {
		c.Cache.maxAge = DefaultMaxAge
		return nil
	}
	d, err := time.ParseDuration(c.Cache.MaxAge)
	if err != nil {
		return fmt.Errorf("invalid cache.max_age %q: %w", c.Cache.MaxAge, err)
	}
	if d <= 0 {
		return fmt.Errorf("cache.max_age must be positive (got %q)", c.Cache.MaxAge)
	}
	c.Cache.maxAge = d
	return nil
}

const defaultConfig = `# nexus configuration
# Location: ~/.config/nexus/config.toml
# A .nexus.toml in the current directory takes precedence, ~/.nexus.toml
# is used as a last resort.

# How many directory levels below the scan root are searched for
# repositories. Overridden by --depth.
scan_depth = 3

# Default scan root when no path argument is given (absolute or ~/...).
# root = "~/code"

# Directory names skipped during discovery, compared exactly. Setting
# this replaces the default list.
ignore_dirs = ["node_modules", "target", "venv", ".build", "build", "dist", ".next"]

# Extra ignore patterns. * matches any run of characters, a trailing /
# matches directories only, a leading / anchors at the scan root and a
# leading ! re-includes. Other characters are literal.
# ignore_patterns = ["*.tmp", "scratch/", "!keep"]

# Parallel workers for scanning and batch fixes (0 = number of CPUs).
workers = 0

[display]
# Show stash count, file counts and last commit by default (--verbose-status).
default_verbose = false

# Show installed git hooks by default (--hooks).
show_hooks = false

# Default sort: "path", "status", "branch" or "health".
default_sort = "path"

# Default output format: "table", "json" or "yaml".
default_format = "table"

# Color theme: "default", "nord", "gruvbox", "catppuccin" or "none".
# theme = "default"

# "auto" picks the light or dark variant from the terminal background.
# theme_mode = "auto"

# Use nerd font icons for status symbols.
# nerdfont = false

[cache]
# Reuse repository status between runs while the repository is unchanged.
enabled = false

# Maximum age of a cached status entry.
max_age = "30s"
`

// DefaultFileContent returns the commented default config file.
func DefaultFileContent() string {
	return defaultConfig
}

// Init writes the default config to ~/.config/nexus/config.toml.
// Returns the path written to. Fails if the file exists unless force is set.
func Init(force bool) (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}
	return path, InitAt(path, force)
}

// InitAt writes the default config to path.
func InitAt(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}

type ctxKey struct{}

// WithConfig stores the loaded config in the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config stored in ctx, or defaults.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok && cfg != nil {
		return cfg
	}
	cfg := Default()
	return &cfg
}
