package system

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/config"
)

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	data, err := toml.Marshal(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Printf("# %s\n", ctx.ConfigPath)
	fmt.Print(string(data))
	return nil
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file with the defaults."`
}

func (c *ConfigInitCmd) Run(ctx *cli.Context) error {
	if _, err := os.Stat(ctx.ConfigPath); err == nil && !c.Force {
		fmt.Printf("⊘ Config already exists at %s (use --force to reset it)\n", ctx.ConfigPath)
		return nil
	}
	if err := config.DefaultConfig().Save(ctx.ConfigPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("✓ Wrote default config to %s\n", ctx.ConfigPath)
	return nil
}

// ConfigCmd groups the config file subcommands.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Print the effective configuration."`
	Init ConfigInitCmd `cmd:"" help:"Write a config file with the defaults."`
}
