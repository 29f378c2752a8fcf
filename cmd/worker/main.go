package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"academiapulse/internal/config"
	"academiapulse/internal/logger"
	"academiapulse/internal/queue"
	"academiapulse/internal/store"
)

// The worker drains change events off the queue and appends them to the
// audit_log table, giving every mutation a durable trail outside the
// key-value snapshots.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get().With().Str("component", "worker").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "academiapulse:events")
	}

	events, err := q.Consume(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("queue consume init failed")
	}

	log.Info().Msg("worker started, waiting for events")
	for evt := range events {
		if evt.Kind == "" {
			continue
		}
		if err := record(ctx, db.Client, evt); err != nil {
			log.Error().Err(err).Str("kind", evt.Kind).Msg("audit insert failed")
			continue
		}
		log.Debug().Str("kind", evt.Kind).Time("at", evt.At).Msg("event recorded")
	}

	log.Info().Msg("worker stopped")
}

func record(ctx context.Context, db *sql.DB, evt queue.Event) error {
	var payload any
	if len(evt.Payload) > 0 {
		payload = []byte(evt.Payload)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO audit_log (id, kind, payload, occurred_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), evt.Kind, payload, evt.At)
	return err
}
