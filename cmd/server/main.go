package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vncsmyrnk/election/internal/adapters/handler/http"
	"github.com/vncsmyrnk/election/internal/adapters/messaging/kafka"
	"github.com/vncsmyrnk/election/internal/adapters/repository"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found")
	}

	cfg, err := config.Load("server", os.Args[1:])
	if err != nil {
		fatal(logger, "invalid configuration", err)
	}
	if err := cfg.ValidateAdmin(); err != nil {
		fatal(logger, "invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		fatal(logger, "failed to open store", err)
	}
	defer store.Close()

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			fatal(logger, "failed to create event publisher", err)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("publishing election events", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	clock := services.NewSystemClock(cfg.Location)
	ballotService := services.NewBallotService(store.Students, store.Votes, store.Schedules, clock, publisher, logger)
	windowService := services.NewWindowService(store.Schedules, clock, publisher, logger)
	electionService := services.NewElectionService(store.Election, store.Votes, store.Schedules, clock, publisher, logger)
	authService, err := services.NewAuthService(services.AuthConfig{
		Username:     cfg.AdminUsername,
		PasswordHash: []byte(cfg.AdminPasswordHash),
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.TokenTTL,
	}, clock, logger)
	if err != nil {
		fatal(logger, "failed to create auth service", err)
	}

	handler := http.NewHandler(http.Handlers{
		Auth:     http.NewAuthHandler(authService, authService.TokenTTL(), cfg.CookieDomain, cfg.CookieSecure, logger),
		Students: http.NewStudentHandler(ballotService, logger),
		Votes:    http.NewVoteHandler(ballotService, logger),
		Window:   http.NewWindowHandler(windowService, cfg.Location, logger),
		Election: http.NewElectionHandler(electionService, cfg.Location, logger),
	}, authService)

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			"addr", cfg.HTTPAddr,
			"database_type", cfg.DatabaseType,
			"timezone", cfg.Timezone,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			fatal(logger, "server failed", err)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
