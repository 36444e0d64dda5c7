package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"extrasync/internal/config"
	"extrasync/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, string, bool, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configPath, c.configExists, c.configErr = config.Load(path)
	})
	return c.config, c.configPath, c.configExists, c.configErr
}

func (c *commandContext) newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, format := "info", "console"
	if cfg != nil {
		level, format = cfg.LogLevel, cfg.LogFormat
	}
	return logging.New(logging.Options{Level: level, Format: format, Writer: w})
}
