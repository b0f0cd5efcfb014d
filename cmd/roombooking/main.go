package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/navikt/roombooking/internal/api"
	"github.com/navikt/roombooking/internal/config"
	"github.com/navikt/roombooking/internal/metrics"
	"github.com/navikt/roombooking/internal/models"
	"github.com/navikt/roombooking/internal/repository"
	"github.com/navikt/roombooking/internal/service"
	"github.com/navikt/roombooking/internal/web"
	"github.com/rs/zerolog"
)

func main() {
	// A missing .env file is fine; real deployments use the environment
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg.Log)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn().Err(envErr).Msg("Could not load .env file")
	}

	metrics.Register()

	// Initialize the repository using the factory
	repo, err := repository.NewRepository(cfg.Storage, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to initialize repository")
	}
	defer closeRepository(repo, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize the service layer against an empty snapshot; the rules
	// watcher fills it in before the server starts
	rules := config.NewRulesStore(models.BookingRules{})
	bookingService := service.NewBookingService(repo, rules, logger)

	err = config.WatchRules(ctx, cfg.Rules.Path, cfg.Rules.ReloadInterval, logger, func(file *config.RulesFile) {
		snapshot := file.ToBookingRules()
		rules.Set(snapshot)
		if !file.HasUsableInterval() {
			logger.Warn().Int("interval", file.Booking.Interval).Msg("Booking interval is not configured, bookings will be rejected")
		}
		if err := bookingService.ProvisionRooms(ctx, snapshot.Rooms); err != nil {
			logger.Error().Err(err).Msg("Failed to provision rooms")
		}
	})
	if err != nil {
		// Fatal skips deferred calls
		closeRepository(repo, logger)
		logger.Fatal().Err(err).Str("path", cfg.Rules.Path).Msg("Failed to load booking rules")
	}

	// Register the SSE update callback with the booking service
	events := web.NewEventStream(logger)
	bookingService.RegisterUpdateCallback(events.PublishRoomEvent)

	bookingService.StartReconcileLoop(ctx, cfg.ReconcileInterval)

	mux := api.SetupRoutes(bookingService, repo, events, logger)
	limiter := web.NewRateLimiter(cfg.RateLimit, logger)

	// Configure the HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      web.Chain(mux, logger, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Server.Port).
			Str("backend", cfg.Storage.Backend).
			Dur("reconcile_interval", cfg.ReconcileInterval).
			Msg("Starting roombooking server")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until a signal is received or an error occurs
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Error starting server")
		}

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server...")

		// Stop background work, then close SSE connections
		stop()
		events.Close()

		// Create a deadline to wait for
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Doesn't block if there are no connections, but will otherwise
		// wait until the timeout deadline.
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			logger.Error().Err(err).Msg("Error shutting down server")
			return
		}

		logger.Info().Msg("Server gracefully stopped")
	}
}

func closeRepository(repo repository.Repository, logger zerolog.Logger) {
	if err := repo.Close(); err != nil {
		logger.Error().Err(err).Msg("Error closing repository")
	}
}

// newLogger builds the root logger from config
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.With().Timestamp().Str("service", "roombooking").Logger()
}
