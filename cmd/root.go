package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-window-name/internal/config"
	"github.com/timvw/tmux-window-name/internal/mux"
	"github.com/timvw/tmux-window-name/internal/naming"
	telem "github.com/timvw/tmux-window-name/internal/otel"
	"github.com/timvw/tmux-window-name/internal/renamer"
	"github.com/timvw/tmux-window-name/internal/render"
)

var (
	// Global flags.
	flagMux      string
	flagConfig   string
	flagLogLevel string
	flagDryRun   bool
	flagTheme    string
)

var rootCmd = &cobra.Command{
	Use:   "tmux-window-name",
	Short: "Name tmux windows after what runs in them",
	Long: `tmux-window-name renames every window of the current tmux session.

A window running a program is named after the program (vim, htop, ...).
A window sitting at a shell prompt is named after its directory, using the
shortest path suffix that tells it apart from the other windows.

Options are read from .tmux-window-name.yaml, ~/.config/tmux-window-name/config.yaml
and @tmux_window_name_* tmux options, in increasing order of precedence.
Renaming a window by hand opts it out until it is renamed to "".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if flagDryRun {
			report, err := a.renamer.Preview(a.ctx)
			if err != nil {
				return err
			}
			return render.Labels(cmd.OutOrStdout(), report.Renamed, report.Disabled, render.ThemeByName(flagTheme))
		}

		report, err := a.renamer.Run(a.ctx)
		if err != nil {
			slog.Error("rename failed", slog.String("error", err.Error()))
			return err
		}
		if report.Busy {
			slog.Debug("skipped: another pass is running")
			return nil
		}
		slog.Info("renamed windows",
			slog.Int("renamed", len(report.Renamed)),
			slog.Int("disabled", len(report.Disabled)))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("TMUX_WINDOW_NAME_MUX", ""), "terminal multiplexer: tmux (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", envOrDefault("TMUX_WINDOW_NAME_CONFIG", ""), "config file (default: search .tmux-window-name.yaml, ~/.config/tmux-window-name/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: DEBUG, INFO, WARNING, ERROR (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "dark", "color theme for printed output: dark, light")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the labels instead of renaming windows")
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	if flagMux != "" {
		return mux.FromName(flagMux)
	}
	return mux.Detect()
}

// app bundles what every command needs: the loaded config, a multiplexer,
// a renamer and the resources to release afterwards.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	mux     mux.Multiplexer
	renamer *renamer.Renamer
	exe     string // program the rename hook runs

	logs *logSink
	tel  *telem.Telemetry
}

// newApp loads configuration: defaults -> config file -> tmux options ->
// env vars -> flags. Logging starts at the file/env level so that warnings
// about malformed tmux options are not lost, and is adjusted once all
// layers are read.
func newApp(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logs, err := openLog(cfg.SlogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging to stderr: %v\n", err)
	}
	if cfg.ConfigFile != "" {
		slog.Debug("config loaded", slog.String("file", cfg.ConfigFile))
	}

	m, err := getMultiplexer()
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	if err := config.ApplyTmuxOptions(ctx, cfg, m); err != nil {
		logs.Close()
		return nil, fmt.Errorf("config: %w", err)
	}
	if flagLogLevel != "" {
		lvl, err := config.ParseLogLevel(flagLogLevel)
		if err != nil {
			logs.Close()
			return nil, err
		}
		cfg.LogLevel = lvl
	}
	logs.SetLevel(cfg.SlogLevel())

	// No-op unless an OTLP endpoint is configured.
	tel, err := telem.Init(ctx, telem.Options{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
		Version:  Version,
		Socket:   mux.SocketName(os.Getenv("TMUX")),
	})
	if err != nil {
		slog.Warn("otel init failed", slog.String("error", err.Error()))
	}
	var metrics *telem.Metrics
	if tel != nil {
		metrics = tel.Metrics
	}

	home, _ := os.UserHomeDir()
	exe := renamer.Executable()
	opts := cfg.NamingOptions(home)
	opts.Resolve.SelfPath = exe
	return &app{
		ctx: ctx,
		cfg: cfg,
		mux: m,
		exe: exe,
		renamer: &renamer.Renamer{
			Mux:    m,
			Procs:  mux.PS{},
			Engine: naming.NewEngine(opts),
			Guard: &renamer.Guard{
				Mux:      m,
				LockPath: renamer.DefaultLockPath(os.TempDir(), os.Getenv("TMUX")),
				Exe:      exe,
			},
			Metrics: metrics,
		},
		logs: logs,
		tel:  tel,
	}, nil
}

// Close flushes telemetry and closes the log file.
func (a *app) Close() {
	if err := a.tel.Shutdown(context.WithoutCancel(a.ctx)); err != nil {
		slog.Warn("otel flush failed", slog.String("error", err.Error()))
	}
	a.logs.Close()
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
