package config

import (
	"fmt"
	"log/slog"
	"strings"

	"extrasync/internal/logging"
	"extrasync/internal/services"
)

// Prompter supplies values for settings that neither flags nor the config
// file provided. Implementations live in internal/prompt; tests inject
// scripted ones.
type Prompter interface {
	Prompt(label string) (string, error)
}

// Overrides carries command-line flag values. Nil or empty fields mean the
// flag was not set, so the config file value survives.
type Overrides struct {
	Host       string
	Token      string
	Section    string
	Collection string
	NoDelete   *bool
}

// Settings is the fully resolved, immutable configuration for one run.
type Settings struct {
	Host       string
	Token      string
	Section    SectionID
	Collection string
	NoDelete   bool
	LogLevel   string
	LogFormat  string
}

// Resolve merges flag overrides onto the file config, prompting for the token
// when both sources are silent. Precedence per setting: flag, file, prompt,
// default. A flag shadowing a file value logs a warning, matching the
// original tool's behavior.
func Resolve(cfg *Config, overrides Overrides, prompter Prompter, logger *slog.Logger) (Settings, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg == nil {
		defaults := Default()
		cfg = &defaults
	}

	settings := Settings{
		Host:       cfg.Host,
		Token:      cfg.Token,
		Section:    cfg.Section,
		Collection: cfg.Collection,
		NoDelete:   cfg.NoDelete,
		LogLevel:   cfg.LogLevel,
		LogFormat:  cfg.LogFormat,
	}

	if host := strings.TrimSpace(overrides.Host); host != "" {
		warnShadowed(logger, "host", cfg.FileSet("host"))
		settings.Host = strings.TrimRight(host, "/")
	}
	if token := strings.TrimSpace(overrides.Token); token != "" {
		warnShadowed(logger, "token", cfg.FileSet("token"))
		settings.Token = token
	}
	if section := strings.TrimSpace(overrides.Section); section != "" {
		warnShadowed(logger, "section", cfg.FileSet("section"))
		settings.Section = ParseSectionID(section)
	}
	if collection := strings.TrimSpace(overrides.Collection); collection != "" {
		warnShadowed(logger, "collection", cfg.FileSet("collection"))
		settings.Collection = collection
	}
	if overrides.NoDelete != nil {
		warnShadowed(logger, "no_delete", cfg.FileSet("no_delete"))
		settings.NoDelete = *overrides.NoDelete
	}

	if settings.Token == "" {
		if prompter == nil {
			return Settings{}, services.Wrap(services.ErrConfiguration, "config", "resolve",
				"no token configured; set token in config.yml or pass --token", nil)
		}
		entered, err := prompter.Prompt("Enter your Plex token")
		if err != nil {
			return Settings{}, services.Wrap(services.ErrConfiguration, "config", "resolve", "read token", err)
		}
		settings.Token = strings.TrimSpace(entered)
		if settings.Token == "" {
			return Settings{}, services.Wrap(services.ErrConfiguration, "config", "resolve", "empty token entered", nil)
		}
	}

	if settings.Host == "" {
		settings.Host = DefaultHost
	}
	if !strings.HasPrefix(settings.Host, "http://") && !strings.HasPrefix(settings.Host, "https://") {
		return Settings{}, services.Wrap(services.ErrConfiguration, "config", "resolve",
			fmt.Sprintf("host %q must start with http:// or https://", settings.Host), nil)
	}
	if settings.Collection == "" {
		settings.Collection = DefaultCollection
	}

	return settings, nil
}

func warnShadowed(logger *slog.Logger, key string, fileHadValue bool) {
	if !fileHadValue {
		return
	}
	logger.Warn("command-line flag shadows config file value",
		logging.Args(logging.String("key", key))...)
}
