// Package main provides the entry point for the accumulator engine daemon.
package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/acca-engine/internal/analyzer"
	"github.com/yourusername/acca-engine/internal/config"
	"github.com/yourusername/acca-engine/internal/database"
	"github.com/yourusername/acca-engine/internal/datasource"
	"github.com/yourusername/acca-engine/internal/health"
	"github.com/yourusername/acca-engine/internal/logger"
	"github.com/yourusername/acca-engine/internal/metrics"
	"github.com/yourusername/acca-engine/internal/repository"
	"github.com/yourusername/acca-engine/internal/scheduler"
	"github.com/yourusername/acca-engine/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Run the accumulator engine daemon",
	Long:  `Runs the daily accumulator pipeline on its cron schedule with health and metrics endpoints.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cmd.Context(), cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatalf("Error: %v", err)
	}
}

func runDaemon() error {
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Accumulator engine starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	feedLog := stdlog.New(os.Stdout, "datasource: ", stdlog.LstdFlags)
	feeds, err := datasource.NewFeeds(cfg, feedLog)
	if err != nil {
		return fmt.Errorf("failed to initialize data feeds: %w", err)
	}

	accService := service.NewAccumulatorService(
		repos, feeds.Odds, feeds.Prediction, cfg.Engine, analyzer.DefaultTunables(), appLog)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Metrics.HealthPort,
		Logger:      appLog,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(accService, cfg.Scheduler, appLog)
		if err := sched.SchedulePipeline(cfg.Scheduler); err != nil {
			return fmt.Errorf("failed to schedule pipeline: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Pipeline scheduler running")
	} else {
		appLog.Warn("Scheduler disabled; pipeline will only run via CLI")
	}

	if feeds.Stream != nil {
		if err := feeds.Stream.Connect(ctx); err != nil {
			appLog.WithError(err).Error("Failed to connect odds stream; continuing without live prices")
		} else {
			go consumeOddsStream(feeds.Stream, appLog)
		}
	}

	healthServer.SetReady(true)
	appLog.Info("Accumulator engine running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
	}
	if feeds.Stream != nil {
		if err := feeds.Stream.Close(); err != nil {
			appLog.WithError(err).Error("Error closing odds stream")
		}
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error stopping metrics server")
		}
	}

	appLog.Info("Accumulator engine shut down")
	return nil
}

// consumeOddsStream drains live price movements. Movements only feed logs
// and metrics; the next pipeline run picks up fresh odds from the feed.
func consumeOddsStream(stream *datasource.OddsStream, appLog *logrus.Logger) {
	feedLogger := logger.NewFeedLogger(appLog)
	for update := range stream.Updates() {
		metrics.RecordStreamUpdate()
		feedLogger.LogOddsStreamEvent(update.FixtureID.String(), update.Market, 0, update.Odds)
	}
	appLog.Info("Odds stream closed")
}
