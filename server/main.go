package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/api"
	"github.com/meikuraledutech/roadmap/config"
	"github.com/meikuraledutech/roadmap/courses"
	"github.com/meikuraledutech/roadmap/events"
	"github.com/meikuraledutech/roadmap/memory"
	"github.com/meikuraledutech/roadmap/postgres"
	"github.com/meikuraledutech/roadmap/progress"
	"github.com/meikuraledutech/roadmap/viewer"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store roadmap.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = postgres.New(pool)
		if err := store.CreateSchema(ctx); err != nil {
			return err
		}
	} else {
		logger.Warn("ROADMAP_DATABASE_URL not set, using in-memory store")
		store = memory.New()
	}

	var pub events.Publisher = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return err
		}
		pub = p
		logger.Info("publishing progress events", "nats", cfg.NATSURL)
	}
	defer pub.Close()

	sink := progress.NewAsyncSink(store, pub, logger, cfg.SinkBuffer)
	defer sink.Close()

	opts := []api.Option{
		api.WithLogger(logger),
		api.WithLayout(cfg.Layout),
		api.WithSinks(func(roadmapID, userID string) viewer.Sink {
			return sink.For(roadmapID, userID)
		}),
	}
	if cfg.CoursesURL != "" {
		opts = append(opts, api.WithRecommender(courses.New(cfg.CoursesURL, cfg.CoursesTimeout)))
	}
	srv := api.New(store, opts...)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr)
	return srv.Listen(cfg.HTTPAddr)
}
