package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sample_config.yml
var sampleConfig string

// DefaultHost is used when neither flag nor file provides a server address.
const DefaultHost = "http://localhost:32400"

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "Movies with Extras"

// SectionID holds a library section identifier that may arrive as a YAML
// integer or a numeric string. Zero means unresolved; the section picker runs.
type SectionID int

// UnmarshalYAML accepts both `section: 2` and `section: "2"`. Non-numeric
// strings leave the id unresolved, matching the original script's behavior of
// falling through to the interactive picker.
func (s *SectionID) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("section: unsupported value")
		}
		*s = SectionID(n)
		return nil
	}
	*s = ParseSectionID(raw)
	return nil
}

// ParseSectionID coerces a numeric-looking string to a section id, returning
// zero (unresolved) for anything else.
func ParseSectionID(raw string) SectionID {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return 0
	}
	return SectionID(n)
}

// Config mirrors the recognized keys of config.yml.
type Config struct {
	Token      string    `yaml:"token"`
	Host       string    `yaml:"host"`
	Section    SectionID `yaml:"section"`
	Collection string    `yaml:"collection"`
	NoDelete   bool      `yaml:"no_delete"`
	LogLevel   string    `yaml:"log_level"`
	LogFormat  string    `yaml:"log_format"`

	fileKeys map[string]bool
}

// FileSet reports whether the config file explicitly set key. Needed to tell
// an explicit value apart from a back-filled default when warning about flags
// that shadow file values.
func (c *Config) FileSet(key string) bool {
	return c.fileKeys[key]
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:       DefaultHost,
		Collection: DefaultCollection,
		LogLevel:   "info",
		LogFormat:  "console",
	}
}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/extrasync/config.yml")
}

// StateDir returns the directory used for run-scoped state such as the lock
// file, creating it if necessary.
func StateDir() (string, error) {
	dir, err := ExpandPath("~/.local/state/extrasync")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create state directory %q: %w", dir, err)
	}
	return dir, nil
}

// Load locates and parses a configuration file. It returns the parsed config,
// the resolved path, and whether a file was actually found; a missing file is
// not an error here so callers can decide whether it is fatal.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		cfg.fileKeys = decodedKeys(data)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("config.yml")
	if err != nil {
		return "", false, err
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// decodedKeys collects the top-level mapping keys the file actually contains,
// before normalize back-fills defaults over absent ones.
func decodedKeys(data []byte) map[string]bool {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	keys := make(map[string]bool, len(raw))
	for key := range raw {
		keys[key] = true
	}
	return keys
}

func (c *Config) normalize() {
	c.Token = strings.TrimSpace(c.Token)
	c.Host = strings.TrimRight(strings.TrimSpace(c.Host), "/")
	c.Collection = strings.TrimSpace(c.Collection)
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	if strings.TrimSpace(c.LogFormat) == "" {
		c.LogFormat = "console"
	}
}

// Validate rejects values that can never work regardless of later prompting.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Host, "http://") && !strings.HasPrefix(c.Host, "https://") {
		return fmt.Errorf("host %q must start with http:// or https://", c.Host)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("log_format %q must be console or json", c.LogFormat)
	}
	return nil
}

// ExpandPath resolves a leading ~ against the current user's home directory.
func ExpandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
