// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"capsule-cli/internal/config"
	"capsule-cli/internal/issue"

	"github.com/spf13/cobra"
)

// configCmd is the `capsule config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage capsule configuration",
	Long: `Manage capsule configuration.

Configuration is stored in:
  - Linux: ~/.config/capsule/config.cue
  - macOS: ~/Library/Application Support/capsule/config.cue
  - Windows: %APPDATA%\capsule\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render(colorScheme())
		if renderErr == nil {
			fmt.Fprint(os.Stderr, rendered)
		}
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if path := config.LoadedConfigPath(); path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("container_engine"), valueStyle.Render(cfg.ContainerEngine.String()))
	if cfg.EngineBinary != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("engine_binary"), valueStyle.Render(cfg.EngineBinary.String()))
	}
	fmt.Printf("%s: %s\n", keyStyle.Render("strict_env"), valueStyle.Render(fmt.Sprintf("%v", cfg.StrictEnv)))
	fmt.Printf("%s: %s\n", keyStyle.Render("output"), valueStyle.Render(cfg.Output.String()))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s/config.cue\n", cfgDir)
	return nil
}

func setConfigValue(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "container_engine":
		engine := config.ContainerEngine(value)
		if valid, errs := engine.IsValid(); !valid {
			return errs[0]
		}
		cfg.ContainerEngine = engine

	case "engine_binary":
		path := config.EngineBinaryPath(value)
		if valid, errs := path.IsValid(); !valid {
			return errs[0]
		}
		cfg.EngineBinary = path

	case "strict_env":
		cfg.StrictEnv = value == "true" || value == "1"

	case "output":
		format := config.OutputFormat(value)
		if valid, errs := format.IsValid(); !valid {
			return errs[0]
		}
		cfg.Output = format

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if valid, errs := scheme.IsValid(); !valid {
			return errs[0]
		}
		cfg.UI.ColorScheme = scheme

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: container_engine, engine_binary, strict_env, output, ui.verbose, ui.color_scheme", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// The cached config is stale after a save.
	config.InvalidateCache()

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}
