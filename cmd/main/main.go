package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/marvko/vendtrack/internal/bot"
	"github.com/marvko/vendtrack/internal/config"
	"github.com/marvko/vendtrack/internal/fetch"
	"github.com/marvko/vendtrack/internal/parser"
	"github.com/marvko/vendtrack/internal/repository/sqlite"
	"github.com/marvko/vendtrack/internal/services/checker"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	repo, err := sqlite.NewRepository(ctx, logger, cfg.StoragePath)
	if err != nil {
		log.Fatalf("Failed to init repository: %v", err)
	}
	defer repo.Close()

	trackBot, err := bot.NewBot(logger, cfg.Tg.Token, cfg.Tg.Timeout, repo)
	if err != nil {
		log.Fatalf("Failed to init bot: %v", err)
	}

	location := checker.Location{ID: cfg.LocationID, Name: cfg.LocationName}
	updateChecker := checker.NewChecker(
		logger,
		fetch.New(logger, cfg.PageURL),
		parser.New(logger),
		repo,
		location,
	)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the bot in a goroutine to allow main to run the check loop.
	go trackBot.Start()

	go runCheckLoop(ctx, logger, cfg.Interval, updateChecker, trackBot, repo, location)

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	// Stop the bot gracefully.
	trackBot.Stop()

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// runCheckLoop performs one check immediately and then on every tick until
// the context is canceled, broadcasting non-empty changesets.
func runCheckLoop(
	ctx context.Context,
	logger *slog.Logger,
	interval time.Duration,
	updateChecker checker.Interface,
	trackBot *bot.Bot,
	repo sqlite.SnapshotRepository,
	location checker.Location,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkOnce(ctx, logger, updateChecker, trackBot, repo, location)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func checkOnce(
	ctx context.Context,
	logger *slog.Logger,
	updateChecker checker.Interface,
	trackBot *bot.Bot,
	repo sqlite.SnapshotRepository,
	location checker.Location,
) {
	changes, err := updateChecker.CheckForUpdates(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Check cycle failed, skipping this fetch", "error", err)
		return
	}
	if changes.Empty() {
		return
	}

	state, err := repo.GetState(ctx, location.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load snapshot for notification", "error", err)
		return
	}

	if err = trackBot.Notify(ctx, changes, state.Snapshot); err != nil {
		logger.ErrorContext(ctx, "Failed to notify subscribers", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
