package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

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

	cfg, err := config.Load("autodeclarer", os.Args[1:])
	if err != nil {
		fatal(logger, "invalid configuration", err)
	}
	schedule := cfg.AutoDeclareCron

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
	}

	clock := services.NewSystemClock(cfg.Location)
	electionService := services.NewElectionService(store.Election, store.Votes, store.Schedules, clock, publisher, logger)

	if schedule == "" {
		jobCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		if err := run(jobCtx, electionService, logger); err != nil {
			fatal(logger, "auto-declaration failed", err)
		}
		return
	}

	c := cron.New(cron.WithLocation(cfg.Location))
	_, err = c.AddFunc(schedule, func() {
		jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := run(jobCtx, electionService, logger); err != nil {
			logger.Error("auto-declaration failed", "error", err)
		}
	})
	if err != nil {
		fatal(logger, "invalid cron spec", err)
	}

	logger.Info("auto-declaration scheduled", "cron", schedule, "timezone", cfg.Timezone)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("auto-declarer stopped")
}

func run(ctx context.Context, service ports.ElectionService, logger *slog.Logger) error {
	declaration, fired, err := service.AutoDeclare(ctx)
	if err != nil {
		return err
	}
	if fired {
		logger.Info("winner declared", "winner", declaration.Winner)
	} else {
		logger.Info("nothing to declare")
	}
	return nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
