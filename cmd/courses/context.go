package main

import (
	"os"

	"github.com/mattn/go-isatty"

	"courses/internal/config"
)

// commandContext resolves shared state lazily so commands that never touch
// the config (like "config path") do not force one into existence.
type commandContext struct {
	configFlag *string
	serverFlag *string
	tokenFlag  *string
	jsonFlag   *bool

	cfg *config.Config
}

func newCommandContext(configFlag, serverFlag, tokenFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
		tokenFlag:  tokenFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) client() (*apiClient, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	base := *c.serverFlag
	if base == "" {
		base = "http://" + cfg.Server.Bind
	}
	token := *c.tokenFlag
	if token == "" {
		token = os.Getenv("COURSES_TOKEN")
	}
	return newAPIClient(base, token), nil
}

// jsonOutput reports whether results should be printed as raw JSON: either
// requested explicitly or because stdout is not a terminal.
func (c *commandContext) jsonOutput() bool {
	if *c.jsonFlag {
		return true
	}
	fd := os.Stdout.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
