package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/critter/internal/config"
	"github.com/san-kum/critter/internal/gait"
	"github.com/san-kum/critter/internal/logging"
	"github.com/san-kum/critter/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	dt         float64
	duration   float64
	direction  string
	lockName   string
	journal    bool
	watch      bool
	frameRate  int
	// manual drive inputs, one per axis
	driveInputs [4]float64
	// tune
	tuneParams []string
	tuneMetric string
	listenAddr string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags bind to the package-level
// variables, so building a fresh tree also resets them to their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "critter",
		Short:         "four-legged gait controller and simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return tui.RunInteractive(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".critter", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	rootCmd.PersistentFlags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	rootCmd.PersistentFlags().StringVar(&direction, "direction", "right", "walking direction (right, left)")
	rootCmd.PersistentFlags().StringVar(&lockName, "lock", "", "lock strategy (fixed, limits)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a walk and store it",
		Args:  cobra.NoArgs,
		RunE:  runWalk,
	}
	runCmd.Flags().BoolVar(&journal, "journal", false, "record phase transitions in the sqlite journal")
	runCmd.Flags().BoolVar(&watch, "watch", false, "stream frames to the terminal while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot axis progress and body position",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	journalCmd := &cobra.Command{
		Use:   "journal [run_id]",
		Short: "print the phase transitions recorded for a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showJournal,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view",
		Args:  cobra.NoArgs,
		RunE:  rootCmd.RunE,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "drive the axes directly, bypassing the gait",
		Args:  cobra.NoArgs,
		RunE:  driveManual,
	}
	driveCmd.Flags().Float64Var(&driveInputs[0], "lh", 0, "left horizontal input")
	driveCmd.Flags().Float64Var(&driveInputs[1], "lv", 0, "left vertical input")
	driveCmd.Flags().Float64Var(&driveInputs[2], "rh", 0, "right horizontal input")
	driveCmd.Flags().Float64Var(&driveInputs[3], "rv", 0, "right vertical input")

	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "run a walk and report Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE:  promMetrics,
	}
	metricsCmd.Flags().StringVar(&listenAddr, "listen", "", "serve /metrics on this address after the run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search gait parameters",
		Args:  cobra.NoArgs,
		RunE:  tuneGait,
	}
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "displacement", "metric to maximize")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, journalCmd, liveCmd, presetsCmd, driveCmd, metricsCmd, tuneCmd)
	return rootCmd
}

// resolveConfig picks the base config (file, preset or defaults with env
// overrides) and applies explicitly set flags on top.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		c, err := config.Load("")
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("direction") {
		d, err := gait.ParseDirection(direction)
		if err != nil {
			return nil, err
		}
		cfg.Direction = d
	}
	if flags.Changed("lock") {
		cfg.Actuator.LockStrategy = lockName
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func journalPath() string {
	return filepath.Join(dataDir, "journal.db")
}

// parseParam splits "name=v1,v2" into a name and its values.
func parseParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=v1,v2", s)
	}
	var vals []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid value in --param %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}
