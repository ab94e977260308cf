package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"matchbook/api/httpserver"
	"matchbook/config"
	"matchbook/domain/book"
	"matchbook/infra/kafka"
	"matchbook/infra/outbox"
	"matchbook/jobs/broadcaster"
	"matchbook/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- Domain ----------------

	b := book.New()

	// ---------------- Sinks ----------------

	sinks := []service.TradeSink{service.NewLogSink(logger)}

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		sinks = append(sinks, producer)

		ob, err := outbox.Open(cfg.OutboxDir)
		if err != nil {
			logger.Fatal("outbox init failed", zap.Error(err))
		}
		defer ob.Close()
		sinks = append(sinks, outbox.NewSink(ob))

		bc, err := broadcaster.New(ob, cfg.Kafka.Brokers, cfg.Kafka.Topic+".reliable", cfg.BroadcastInterval, logger)
		if err != nil {
			logger.Fatal("broadcaster init failed", zap.Error(err))
		}
		defer bc.Close()
		go bc.Run(ctx)
	}

	// ---------------- Service ----------------

	svc := service.NewOrderService(b, cfg.TickSize, logger, sinks...)

	// ---------------- HTTP ----------------

	api := httpserver.New(svc, logger)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("matchbook engine running",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("tick_size", cfg.TickSize.String()),
		zap.Bool("kafka", cfg.Kafka.Enabled),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server exited", zap.Error(err))
	}

	logger.Info("matchbook engine stopped")
}
