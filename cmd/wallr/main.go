package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/wallr/internal/config"
	"github.com/pders01/wallr/internal/debuglog"
	"github.com/pders01/wallr/internal/query"
	"github.com/pders01/wallr/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	verbose    bool

	quiet      bool
	presetPath string
)

var rootCmd = &cobra.Command{
	Use:           "wallr",
	Short:         "Browse Wallhaven wallpapers in the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "wallr %s\n", Version)
		fmt.Fprintln(out, "Wallhaven wallpaper browser")
		fmt.Fprintln(out, "github.com/pders01/wallr")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := configPath
		if target == "" {
			target = config.DefaultPath()
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(target); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}
		if err := config.GenerateDefaultConfig(target); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", target)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to configuration file")
	pf.StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Write debug logs to stderr")

	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")
	rootCmd.Flags().StringVar(&presetPath, "preset", "", "Start with the search saved in this preset file")

	configGenCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configGenCmd)

	rootCmd.AddCommand(versionCmd, configCmd, searchCmd, favCmd, tagsCmd, openCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !quiet {
		tui.ShowBanner(Version)
	}

	var initial *query.Search
	if presetPath != "" {
		s, err := query.LoadPreset(presetPath)
		if err != nil {
			return err
		}
		initial = &s
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}

	go func() {
		if err := e.favs.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			debuglog.Errorf("favorites: synchronizer stopped: %v", err)
		}
	}()

	deps := tui.Deps{
		Catalog:   e.client,
		Favorites: e.favs,
		Suggester: e.tags,
		Launcher:  e.launcher,
		Local:     e.lister,
		Initial:   initial,
	}

	app := tui.NewApp(ctx, e.cfg, deps)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
