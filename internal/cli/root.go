// Package cli wires the command line to the initial screen: status by
// default, or a log/show screen with the remaining arguments forwarded to
// the corresponding git invocation.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jakejx/gitu/internal/app"
	"github.com/jakejx/gitu/internal/config"
	"github.com/jakejx/gitu/internal/git"
	"github.com/jakejx/gitu/internal/logger"
	"github.com/jakejx/gitu/internal/screen"
	"github.com/jakejx/gitu/internal/ui"
)

// Execute parses the command line and runs the client.
func Execute() error {
	root := &cobra.Command{
		Use:          "gitu",
		Short:        "Interactive terminal client for git",
		Long:         "gitu: inspect and mutate repository state with hunk-granular staging.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("status", nil)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:                "log [git log args]",
			Short:              "Start on the log screen",
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run("log", args)
			},
		},
		&cobra.Command{
			Use:                "show [git show args]",
			Short:              "Start on a show screen",
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run("show", args)
			},
		},
	)

	return root.Execute()
}

func run(kind string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Close()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not get current directory: %w", err)
	}

	repoRoot, err := git.Discover(cwd)
	if err != nil {
		return err
	}

	runner := git.NewRunner(repoRoot)
	format := ui.HunkFormatter(cfg.DeltaPath)

	var collect screen.Collector
	switch kind {
	case "log":
		collect = screen.LogCollector(runner, args...)
	case "show":
		collect = screen.ShowCollector(runner, format, args...)
	default:
		collect = screen.StatusCollector(runner, format)
	}

	rootScreen, err := screen.New(0, 0, collect)
	if err != nil {
		return err
	}

	model := app.New(cfg, log, runner, rootScreen)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}
