package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"civia/internal"
	"civia/internal/config"
	"civia/internal/container"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "civia",
		Short: "CivIA dashboard, development backend and connectivity check",
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newFixtureCmd(),
		newCheckCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}
			if port != "" {
				c.Config.Server.Port = port
			}

			server, err := c.UIServer()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("🚀 Starting CivIA dashboard on %s (backend %s)", c.UIAddr(), c.Config.Backend.BaseURL)
			return server.Run(ctx, c.UIAddr())
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port, overrides PORT")

	return cmd
}

func newFixtureCmd() *cobra.Command {
	var port, chartsDir, metricsFile string

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Run a canned analytics backend for local development",
		Long: `Run an in-process stand-in for the analytics backend.

Failures can be forced at runtime:
  curl -X POST 'localhost:8000/_fixture/fail/kpis?status=503'
  curl -X DELETE localhost:8000/_fixture/fail/kpis`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}
			if port != "" {
				c.Config.Fixture.Port = port
			}
			if chartsDir != "" {
				c.Config.Fixture.ChartsDir = chartsDir
			}
			if metricsFile != "" {
				c.Config.Fixture.MetricsFile = metricsFile
			}

			fx, err := c.FixtureServer()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{Addr: c.FixtureAddr(), Handler: fx.Handler()}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Printf("🧪 Fixture backend listening on %s", c.FixtureAddr())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port, overrides FIXTURE_PORT")
	cmd.Flags().StringVar(&chartsDir, "charts-dir", "", "Directory with real chart images")
	cmd.Flags().StringVar(&metricsFile, "metrics", "", "XLSX workbook with the metrics to serve")

	return cmd
}

func newCheckCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Query the analytics backend for KPIs and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runCheck(ctx, c.Backend, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Overall deadline for both requests")

	return cmd
}

func loadContainer() (*container.Container, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return container.New(cfg, internal.NewDefaultLogger())
}
