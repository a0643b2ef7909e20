package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/penwyp/go-focus-calendar/internal/analyzer"
	"github.com/penwyp/go-focus-calendar/internal/config"
	"github.com/penwyp/go-focus-calendar/internal/util"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	// Logging related
	debug bool

	// Config and data paths
	configPath   string
	envFile      string
	dataDir      string
	dataFile     string
	subjectsFile string

	// Week selection
	timezone   string
	anchor     string
	weekOffset int
	subject    string
}

type analyzeOptions struct {
	outputFormat string
	groupBy      string
	breakdown    bool
	reset        bool
	noColor      bool
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}
	a := &analyzeOptions{}

	rootCmd := &cobra.Command{
		Use:   "go-focus-calendar [flags]",
		Short: "Weekly calendar of focus sessions",
		Long: `go-focus-calendar lays exported focus sessions out on a Monday-first week in
your timezone and reports totals, subjects, rank and streaks.

Sessions are read from *.json and *.jsonl exports in the data directory; subject
names and colors come from subjects.json next to them or from the config file.

Examples:
  go-focus-calendar                                   # This week, table view
  go-focus-calendar -o grid                           # 7 x 24 heat grid
  go-focus-calendar --week-offset -1 -o summary       # Last week's report
  go-focus-calendar --anchor "2025-06-12" --timezone America/Chicago
  go-focus-calendar --anchor "2 weeks ago" --group-by subject --breakdown
  go-focus-calendar -o ics > week.ics                 # Export to a calendar app`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, a)
		},
	}

	// Input data configuration
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "",
		"Config file (YAML, or TOML for *.toml; default ~/.go-focus-calendar/config.yaml)")
	pf.StringVar(&g.envFile, "env-file", ".env",
		"Dotenv file with FOCUS_* overrides")
	pf.StringVar(&g.dataDir, "dir", "",
		"Directory of session exports")
	pf.StringVar(&g.dataFile, "file", "",
		"Single session export to read instead of --dir")
	pf.StringVar(&g.subjectsFile, "subjects", "",
		"Subject definitions file (default <dir>/subjects.json)")

	// Week selection
	pf.StringVar(&g.timezone, "timezone", "",
		"IANA timezone of the calendar (e.g., America/Chicago, UTC, Local)")
	pf.StringVar(&g.anchor, "anchor", "",
		"Any moment inside the week to show: a date, RFC3339 or a phrase like \"last monday\"")
	pf.StringVar(&g.subject, "subject", "",
		"Only show one subject id (\"none\" for sessions without a subject)")

	// System and debugging
	pf.BoolVar(&g.debug, "debug", false,
		"Enable debug mode")

	addWeekOffsetFlag(rootCmd, g)

	// Output configuration
	rootCmd.Flags().StringVarP(&a.outputFormat, "output", "o", "",
		"Output format (table, grid, json, csv, summary, ics)")
	rootCmd.Flags().StringVar(&a.groupBy, "group-by", "",
		"Group rows by day, subject or week")
	rootCmd.Flags().BoolVarP(&a.breakdown, "breakdown", "b", false,
		"Show per-subject rows under each group")
	rootCmd.Flags().BoolVar(&a.noColor, "no-color", false,
		"Disable colors in grid output")
	rootCmd.Flags().BoolVarP(&a.reset, "reset", "r", false,
		"Clear cache before analysis")

	rootCmd.AddCommand(newWatchCommand(g))
	rootCmd.AddCommand(newMarkersCommand(g))
	rootCmd.AddCommand(newConfigCommand(g))
	return rootCmd
}

func addWeekOffsetFlag(cmd *cobra.Command, g *globalOptions) {
	cmd.Flags().IntVar(&g.weekOffset, "week-offset", 0,
		"Weeks to move from the anchor week (negative goes back)")
}

func Execute() error {
	return NewRootCommand().Execute()
}

// loadSettings resolves the effective configuration: defaults, then the
// config file, then .env and FOCUS_* variables, then explicit flags
func loadSettings(cmd *cobra.Command, g *globalOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", g.envFile, err)
	}

	path := g.configPath
	if path != "" {
		path = expandPath(path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("timezone") {
		cfg.Timezone = g.timezone
	}
	if flags.Changed("dir") {
		cfg.DataDir = g.dataDir
	}
	if flags.Changed("file") {
		cfg.DataDir = g.dataFile
	}
	if flags.Changed("subject") {
		cfg.Subject = g.subject
	}
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.CacheDir = expandPath(cfg.CacheDir)
	cfg.LogFile = expandPath(cfg.LogFile)
	return cfg, nil
}

// setupRuntime initializes logging and the global time provider
func setupRuntime(cfg *config.Config, debug bool) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	if err := ensureDir(filepath.Dir(cfg.LogFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, cfg.LogFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, g *globalOptions, a *analyzeOptions) error {
	cfg, err := loadSettings(cmd, g)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = a.outputFormat
	}
	if cmd.Flags().Changed("group-by") {
		cfg.GroupBy = a.groupBy
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupRuntime(cfg, g.debug); err != nil {
		return err
	}

	// Ensure cache directory exists
	if err := ensureDir(cfg.CacheDir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Clear cache if needed
	if a.reset {
		if err := clearCache(cfg.CacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("cache cleared", util.String("dir", cfg.CacheDir))
	}

	subjectsFile := g.subjectsFile
	if subjectsFile != "" {
		subjectsFile = expandPath(subjectsFile)
	}

	an, err := analyzer.New(&analyzer.Config{
		DataDir:      cfg.DataDir,
		SubjectsFile: subjectsFile,
		CacheDir:     cfg.CacheDir,
		OutputFormat: cfg.Output,
		Timezone:     cfg.Timezone,
		Anchor:       g.anchor,
		WeekOffset:   g.weekOffset,
		SubjectID:    cfg.Subject,
		GroupBy:      cfg.GroupBy,
		Breakdown:    a.breakdown,
		Color:        !a.noColor && isTerminal(cmd.OutOrStdout()),
		ResetRule:    cfg.ResetRule,
		Subjects:     cfg.Subjects,
		Concurrency:  runtime.NumCPU(),
	})
	if err != nil {
		return err
	}
	return an.RunTo(cmd.OutOrStdout())
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
