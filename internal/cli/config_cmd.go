package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/litemon/internal/config"
	"github.com/rileyhilliard/litemon/internal/errors"
	"github.com/rileyhilliard/litemon/internal/util"
)

var (
	configInitForce    bool
	configInitDefaults bool
)

// configCmd groups the config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the litemon config file",
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration litemon would run with, after merging defaults,
the config file, LITEMON_* environment variables and flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), cfg)
	},
}

// configInitCmd writes a config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file",
	Long: `Create a litemon config file, by default at ~/.config/litemon/config.yaml.

Prompts for the refresh interval, the categories to show and the color mode.
Use --defaults to skip the prompts.

Examples:
  litemon config init
  litemon config init --defaults
  litemon config init --config ./litemon.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitCommand(cmd.OutOrStdout(), initOptions{
			Path:           cfgFile,
			Overwrite:      configInitForce,
			NonInteractive: configInitDefaults,
		})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "write the defaults without prompting")
}

func showConfig(w io.Writer, cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	if cfg.Path != "" {
		fmt.Fprintf(w, "# from %s\n", cfg.Path)
	} else {
		fmt.Fprintln(w, "# no config file, built-in defaults")
	}
	fmt.Fprintf(w, "# panels: %s\n", util.JoinOrNone(enabledPanels(cfg)))
	_, err = w.Write(data)
	return err
}

// enabledPanels lists the categories cfg turns on.
func enabledPanels(cfg *config.Config) []string {
	var on []string
	for _, c := range []struct {
		key     string
		enabled bool
	}{
		{config.KeyCPU, cfg.CPU},
		{config.KeyMemory, cfg.Memory},
		{config.KeyDisk, cfg.Disk},
		{config.KeyNetwork, cfg.Network},
		{config.KeyGPU, cfg.GPU},
	} {
		if c.enabled {
			on = append(on, c.key)
		}
	}
	return on
}

// initOptions holds options for config init.
type initOptions struct {
	Path           string
	Overwrite      bool
	NonInteractive bool
}

func configInitCommand(w io.Writer, opts initOptions) error {
	path := opts.Path
	if path == "" {
		path = config.DefaultPath()
		if path == "" {
			return errors.New(errors.ErrConfig,
				"Cannot determine the home directory",
				"Pass --config with the path to write")
		}
	}

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	cfg := config.Default()
	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.WriteFile(path, cfg, true); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// promptConfig asks for the settings most people change and stores the
// answers in cfg.
func promptConfig(cfg *config.Config) error {
	interval := "1"
	categories := []string{config.KeyCPU, config.KeyMemory, config.KeyDisk, config.KeyNetwork, config.KeyGPU}
	color := cfg.Color

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval").
				Description(`Seconds ("2") or a duration ("500ms"), at least 100ms`).
				Placeholder("1").
				Value(&interval).
				Validate(func(s string) error {
					_, err := config.ParseInterval(s)
					if err != nil {
						return fmt.Errorf("enter seconds like 2 or a duration like 500ms, at least %s", config.MinInterval)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Panels to show").
				Options(
					huh.NewOption("CPU", config.KeyCPU).Selected(true),
					huh.NewOption("Memory", config.KeyMemory).Selected(true),
					huh.NewOption("Disk", config.KeyDisk).Selected(true),
					huh.NewOption("Network", config.KeyNetwork).Selected(true),
					huh.NewOption("GPU", config.KeyGPU).Selected(true),
				).
				Value(&categories),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color").
				Options(huh.NewOptions(config.ColorModes...)...).
				Value(&color),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Use --defaults to write the defaults without prompting")
	}

	d, err := config.ParseInterval(interval)
	if err != nil {
		return err
	}
	cfg.Interval = d
	cfg.Color = color
	applyCategories(cfg, categories)
	return nil
}

// applyCategories turns on exactly the named categories.
func applyCategories(cfg *config.Config, selected []string) {
	on := make(map[string]bool, len(selected))
	for _, s := range selected {
		on[s] = true
	}
	cfg.CPU = on[config.KeyCPU]
	cfg.Memory = on[config.KeyMemory]
	cfg.Disk = on[config.KeyDisk]
	cfg.Network = on[config.KeyNetwork]
	cfg.GPU = on[config.KeyGPU]
}
