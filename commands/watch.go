package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-focus-calendar/internal/application/watch"
)

type watchOptions struct {
	refresh string
	noColor bool
}

func newWatchCommand(g *globalOptions) *cobra.Command {
	w := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live weekly calendar that follows your exports",
		Long: `Shows the week grid full screen and redraws it whenever an export or the
subjects file changes, and on the refresh schedule so the now marker moves.

Keys:
  n/→  next week      p/←  previous week    t  this week
  s    cycle subject   a    all subjects      r  reload
  h/?  help            q    quit`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, g, w)
		},
	}

	cmd.Flags().StringVar(&w.refresh, "refresh", "",
		"Redraw schedule as a cron spec (e.g., \"@every 30s\", \"*/5 * * * *\")")
	cmd.Flags().BoolVar(&w.noColor, "no-color", false,
		"Disable subject colors")
	return cmd
}

func runWatch(cmd *cobra.Command, g *globalOptions, w *watchOptions) error {
	cfg, err := loadSettings(cmd, g)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("refresh") {
		cfg.RefreshCron = w.refresh
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupRuntime(cfg, g.debug); err != nil {
		return err
	}
	if err := ensureDir(cfg.CacheDir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	subjectsFile := g.subjectsFile
	if subjectsFile != "" {
		subjectsFile = expandPath(subjectsFile)
	}

	config := &watch.WatchConfig{
		DataDir:      cfg.DataDir,
		SubjectsFile: subjectsFile,
		CacheDir:     cfg.CacheDir,
		Timezone:     cfg.Timezone,
		Anchor:       g.anchor,
		SubjectID:    cfg.Subject,
		Subjects:     cfg.Subjects,
		Color:        !w.noColor,
		RefreshSpec:  cfg.RefreshCron,
		ResetRule:    cfg.ResetRule,
		Concurrency:  runtime.NumCPU(),
	}

	orchestrator, err := watch.NewOrchestrator(config, os.Stdout)
	if err != nil {
		return err
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return orchestrator.Run(ctx)
}
