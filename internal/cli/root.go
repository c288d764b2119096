package cli

import (
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rserranon/options-simulator/internal/config"
	"github.com/rserranon/options-simulator/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "optsim",
		Short: "Options Simulator - payoff at expiration for covered call strategies",
		Long: `Options Simulator plots and tabulates the value or profit at expiration of
long stock, covered calls, naked short calls and puts, and cash-secured puts
across a range of prices around the strike.

Use 'optsim serve' to open the interactive dashboard in a browser.
Use 'optsim examples' to see common workflows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			noColor, _ := cmd.Flags().GetBool("no-color")
			if noColor || !app.Config.UI.ColorEnabled {
				color.NoColor = true
			}
			if skipsConfigValidation(cmd) {
				return nil
			}
			return app.Config.Validate()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-simulator)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	addCoreCommands(rootCmd, app)
	addPayoffCommands(rootCmd, app)
	addServerCommands(rootCmd, app)
	addHelpCommands(rootCmd)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{skipConfigValidation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Options Simulator v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

// skipConfigValidation marks commands that must run with a broken config
// file, such as the ones that report on it.
const skipConfigValidation = "skip-config-validation"

func skipsConfigValidation(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigValidation] == "true" {
			return true
		}
	}
	return false
}

// configDir returns the directory given with --config, or the default.
func configDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("config")
	if dir == "" {
		return config.DefaultConfigDir()
	}
	return dir
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Configuration management",
		Long:        "View and validate application configuration.",
		Annotations: map[string]string{skipConfigValidation: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := filepath.Join(configDir(cmd), "config.toml")
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				if !output.IsJSON() {
					output.Error("Configuration validation failed: %v", err)
				}
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	d := cfg.Defaults
	output.Bold("Simulation Defaults")
	output.Printf("  Strike:          %s\n", FormatDollar(d.Strike))
	output.Printf("  Premium:         %s\n", FormatDollar(d.Premium))
	output.Printf("  Cost Basis:      %s\n", FormatDollar(d.Basis))
	output.Printf("  Contract Size:   %d\n", d.ContractSize)
	output.Printf("  Per Share:       %v\n", d.PerShare)
	output.Printf("  Show Profit:     %v\n", d.ShowProfit)
	output.Printf("  Strategies:      %s\n", strings.Join(d.Strategies, ", "))
	output.Println()

	output.Bold("Display")
	output.Printf("  Colors:          %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Chart Size:      %dx%d\n", cfg.UI.ChartWidth, cfg.UI.ChartHeight)
	output.Printf("  Table Step:      %d\n", cfg.UI.TableStep)
	output.Println()

	output.Bold("Dashboard Server")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Printf("  Read Timeout:    %s\n", cfg.Server.ReadTimeout)
	output.Printf("  Write Timeout:   %s\n", cfg.Server.WriteTimeout)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)
	if cfg.Logging.File {
		output.Printf("  File Path:       %s\n", cfg.Logging.FilePath)
	}
}
