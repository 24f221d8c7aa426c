package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"scrim/internal/app"
	"scrim/internal/config"
	"scrim/internal/log"
	"scrim/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugMode bool
	traceMode bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "scrim",
	Short:   "A floating widget playground for the terminal",
	Long:    `A terminal playground for anchored overlays: dropdown menus, nested submenus, tooltips, dialogs, and context menus positioned with collision handling.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/scrim/config.yaml)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false,
		"write debug logs to scrim.log")
	rootCmd.Flags().BoolVar(&traceMode, "trace", false,
		"enable span tracing regardless of config")
	rootCmd.Flags().Bool("no-mouse", false,
		"disable mouse support")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("floating.placement", defaults.Floating.Placement)
	viper.SetDefault("floating.offset", defaults.Floating.Offset)
	viper.SetDefault("floating.padding", defaults.Floating.Padding)
	viper.SetDefault("floating.flip", defaults.Floating.Flip)
	viper.SetDefault("floating.shift", defaults.Floating.Shift)
	viper.SetDefault("theme.mode", defaults.Theme.Mode)
	viper.SetDefault("theme.highlight", defaults.Theme.Highlight)
	viper.SetDefault("theme.subtle", defaults.Theme.Subtle)
	viper.SetDefault("theme.backdrop", defaults.Theme.Backdrop)
	viper.SetDefault("theme.error", defaults.Theme.Error)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.mouse_enabled", defaults.UI.MouseEnabled)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .scrim/config.yaml (current directory)
		// 2. ~/.config/scrim/config.yaml (user config)
		if _, err := os.Stat(".scrim/config.yaml"); err == nil {
			viper.SetConfigFile(".scrim/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "scrim"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file is fine; the defaults apply.
	_ = viper.ReadInConfig()
	cfg = config.Defaults()
	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	debug := debugMode || os.Getenv("SCRIM_DEBUG") != ""
	if debug {
		cleanup, err := log.InitWithTeaLog("scrim.log", "scrim")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.SetEnabled(true)
		log.SetMinLevel(log.LevelDebug)
	}

	if traceMode {
		cfg.Tracing.Enabled = true
	}
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	var tracer trace.Tracer
	if provider.Enabled() {
		tracer = provider.Tracer()
	}

	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		configFilePath, _ = config.DefaultPath()
	}

	model := app.New(cfg, configFilePath, tracer, debug)

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	noMouse, _ := cmd.Flags().GetBool("no-mouse")
	if cfg.UI.MouseEnabled && !noMouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, progOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
