package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gobeam/internal/server"
)

var (
	serveAddr   string
	serveOrigin string
	serveRate   float64
	serveBurst  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve the analysis engine over HTTP for web frontends: JSON analyze
and batch endpoints, XLSX import, PDF reports and a health check.

Secrets and storage come from the environment (a .env file is loaded
when present):
  TOKEN_KEY      enables register/login and bearer-token auth on the
                 analysis endpoints when set
  DATABASE_URL   Postgres DSN; enables the persisted analysis history

Examples:
  # Open service on the default port
  gobeam serve

  # Authenticated service with history behind a reverse proxy
  TOKEN_KEY=change-me DATABASE_URL=postgres://... gobeam serve \
    --addr 127.0.0.1:9000 --origin https://beams.example.com`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveOrigin, "origin", "*", "Allowed CORS origin")
	serveCmd.Flags().Float64Var(&serveRate, "rate", 10, "Per-IP request rate limit (requests/second)")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 20, "Per-IP request burst allowance")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo server.Repository
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := server.OpenPostgres(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pg.Close()
		repo = pg
		logger.Info("analysis history enabled")
	}

	srv := server.New(server.Config{
		Addr:        serveAddr,
		JWTSecret:   os.Getenv("TOKEN_KEY"),
		AllowOrigin: serveOrigin,
		RateRPS:     serveRate,
		RateBurst:   serveBurst,
	}, logger, repo)
	return srv.Run(ctx)
}
