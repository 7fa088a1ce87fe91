package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"csub/internal/config"
	"csub/internal/engine"
	"csub/internal/history"
	"csub/internal/logging"
	"csub/internal/session"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		verbose := c.verbose != nil && *c.verbose
		logger, err := logging.NewFromConfig(c.config, verbose)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "warn", OutputPaths: []string{"stderr"}})
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) engine() engine.Engine {
	return engine.New(c.config.FFprobeBinary(), c.config.FFmpegBinary())
}

// openSession builds a session over the configured tools. The returned
// closer releases the history database, if one was opened.
func (c *commandContext) openSession(withHistory bool) (*session.Session, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	closer := func() {}
	var store *history.Store
	if withHistory && cfg.History.Enabled {
		store, err = history.Open(cfg.HistoryPath())
		if err != nil {
			return nil, nil, fmt.Errorf("open history: %w", err)
		}
		closer = func() { _ = store.Close() }
	}

	sess, err := session.New(session.Options{
		Engine:       c.engine(),
		Logger:       c.loggerValue(),
		History:      store,
		LockPath:     cfg.LockPath(),
		ProbeTimeout: cfg.ProbeTimeout(),
		JobTimeout:   cfg.ExtractTimeout(),
	})
	if err != nil {
		closer()
		return nil, nil, err
	}
	return sess, closer, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
