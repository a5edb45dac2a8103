package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/witanlabs/gridcalc/config"
	"github.com/witanlabs/gridcalc/engine"
	"github.com/witanlabs/gridcalc/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <rows> <cols>",
	Short: "Serve one sheet over HTTP and WebSocket",
	Long: `Create a <rows> x <cols> sheet and serve it until interrupted.

Endpoints:
  PUT /api/v1/cells/{cell}   set a cell: {"formula": "A1+3"}
  GET /api/v1/cells/{cell}   read a cell's value and formula
  GET /api/v1/viewport       read a window (?top=&left=&height=&width=)
  GET /api/v1/ws             stream "CELL=formula" edits, receive cell deltas
  GET /healthcheck
  GET /metrics               Prometheus metrics

When an API key is configured (--api-key, GRIDCALC_API_KEY or server.api_key)
every /api/v1 request must send it as a bearer token.

Examples:
  gridcalc serve 100 26
  gridcalc serve 999 702 --addr 127.0.0.1:9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, else :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rows, cols, err := parseDimensions(args)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	key, err := resolveAPIKey()
	if err != nil {
		return err
	}

	setGinMode()
	sheet, err := engine.New(rows, cols, engine.WithLogger(logger))
	if err != nil {
		return err
	}
	srv := server.New(sheet, server.Options{
		APIKey:       key,
		Logger:       logger,
		WindowHeight: cfg.Viewport.Height,
		WindowWidth:  cfg.Viewport.Width,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}

// setGinMode keeps gin's route dump and debug warnings off stdout unless
// GIN_MODE asks for them; requests are logged through slog instead.
func setGinMode() {
	switch mode := os.Getenv(gin.EnvGinMode); mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}
