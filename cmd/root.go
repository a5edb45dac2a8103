package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/witanlabs/gridcalc/config"
	"github.com/witanlabs/gridcalc/engine"
	"github.com/witanlabs/gridcalc/internal"
	"github.com/witanlabs/gridcalc/repl"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const defaultAPIURL = "http://localhost:8080"

var (
	apiKey   string
	apiURL   string
	logLevel string

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gridcalc <rows> <cols>",
	Short: "gridcalc: a terminal spreadsheet with live recalculation",
	Long: `Start an interactive spreadsheet of <rows> x <cols> cells.

Rows range over 1-999 and columns over 1-18278 (A-ZZZ). Every cell starts at 0.

Commands at the prompt:
  A1=5            set a cell to a number
  B1=A1+3         one operator: + - * / between numbers or cells
  C1=SUM(A1:B9)   MIN MAX AVG SUM STDEV over a rectangle
  D1=SLEEP(2)     wait 2 seconds, then evaluate to 2
  w a s d         scroll the view by one window
  scroll_to B20   move the top-left corner of the view
  disable_output  stop printing the grid (enable_output to resume)
  q               quit

Examples:
  gridcalc 10 10
  gridcalc 999 18278 < commands.txt`,
	Version:           Version,
	Args:              cobra.ArbitraryArgs,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	RunE:              runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "gridcalc server API key (env: GRIDCALC_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "gridcalc server URL (env: GRIDCALC_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env: GRIDCALC_LOG_LEVEL)")
}

// setupLogging builds the process logger from --log-level or the config.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		// A broken config file must not block `gridcalc config reset`.
		level = config.DefaultLogLevel
		if cfg, err := config.Load(); err == nil {
			level = cfg.LogLevel
		}
	}
	l, err := newLogger(os.Stderr, level)
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(l)
	return nil
}

// parseDimensions validates the <rows> <cols> arguments.
func parseDimensions(args []string) (rows, cols int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("usage: gridcalc <rows> <cols>")
	}
	rows, rowErr := strconv.Atoi(strings.TrimSpace(args[0]))
	cols, colErr := strconv.Atoi(strings.TrimSpace(args[1]))
	if rowErr != nil || colErr != nil ||
		rows < 1 || rows > internal.MaxRows || cols < 1 || cols > internal.MaxCols {
		return 0, 0, fmt.Errorf("invalid rows or cols; got %sx%s. Valid: 1≤rows≤%d, 1≤cols≤%d",
			args[0], args[1], internal.MaxRows, internal.MaxCols)
	}
	return rows, cols, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	rows, cols, err := parseDimensions(args)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	sheet, err := engine.New(rows, cols, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	session := repl.New(sheet, cmd.InOrStdin(), cmd.OutOrStdout(),
		repl.WithWindow(cfg.Viewport.Height, cfg.Viewport.Width),
		repl.WithLogger(logger))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return session.Run(ctx)
}

func resolveAPIKey() (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	return cfg.Server.APIKey, nil
}

func resolveAPIURL() (string, error) {
	if apiURL != "" {
		return apiURL, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	if cfg.Server.URL != "" {
		return cfg.Server.URL, nil
	}
	return defaultAPIURL, nil
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
