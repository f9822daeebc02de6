// Package app собирает зависимости CRM и управляет жизненным циклом серверов.
package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/crm/internal/health"
	"github.com/vladislavdragonenkov/crm/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
	"github.com/vladislavdragonenkov/crm/internal/service/heartbeat"
	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
	"github.com/vladislavdragonenkov/crm/internal/service/outbox"
	"github.com/vladislavdragonenkov/crm/internal/service/query"
	"github.com/vladislavdragonenkov/crm/internal/service/rest"
	"github.com/vladislavdragonenkov/crm/internal/version"
)

// Run запускает CRM: HTTP API, операционный сервер и фоновые воркеры.
// Блокируется до отмены ctx или фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	mutationMetrics := metrics.NewMutationMetrics()

	mutations := mutation.NewService(
		deps.Customers,
		deps.Products,
		deps.Orders,
		mutation.WithOutbox(deps.Outbox),
		mutation.WithMetrics(mutationMetrics),
		mutation.WithLogger(logger.WithField("layer", "mutation")),
	)
	queries := query.NewService(deps.Customers, deps.Products, deps.Orders)

	handler := rest.NewHandler(mutations, queries, logger.WithField("layer", "rest"))
	router := rest.NewRouter(handler)

	// Health checks
	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.Store.Ping(pingCtx)
		}))
	}

	opsSrv := startOpsServer(ctx, cfg.OpsAddr, logger, healthHandler)

	// Kafka и outbox worker (опционально)
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)

	var workers sync.WaitGroup
	workersCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	if kafkaProducer != nil {
		publisher := kafka.NewOutboxPublisher(kafkaProducer)
		dlqPublisher := kafka.NewDLQPublisher(kafkaProducer)
		worker := outbox.NewWorker(
			deps.Outbox,
			publisher,
			outbox.WithLogger(logger.WithField("layer", "outbox")),
			outbox.WithDLQPublisher(dlqPublisher),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		)
		workers.Add(1)
		go func() {
			defer workers.Done()
			worker.Run(workersCtx)
		}()
	}

	if cfg.HeartbeatEnabled {
		hb := heartbeat.NewWorker(
			cfg.HeartbeatLogPath,
			heartbeat.WithLogger(logger.WithField("layer", "heartbeat")),
			heartbeat.WithInterval(cfg.HeartbeatInterval),
			heartbeat.WithHelloProbe(cfg.HeartbeatHelloURL),
		)
		scanner := heartbeat.NewReminderScanner(
			queries,
			cfg.ReminderLogPath,
			heartbeat.WithLogger(logger.WithField("layer", "order-reminders")),
			heartbeat.WithInterval(cfg.ReminderInterval),
		)
		workers.Add(2)
		go func() {
			defer workers.Done()
			hb.Run(workersCtx)
		}()
		go func() {
			defer workers.Done()
			scanner.Run(workersCtx)
		}()
	}

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(opsSrv, logger)

		stopWorkers()
		workers.Wait()
		closeKafka(kafkaProducer, logger)

		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)

		stopWorkers()
		workers.Wait()
		closeKafka(kafkaProducer, logger)

		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startOpsServer запускает операционный HTTP-сервер: метрики и health probes.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
