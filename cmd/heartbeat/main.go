// Команда heartbeat запускает фоновые журналы CRM отдельно от API:
// отметки живости и напоминания о pending-заказах.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/app"
	"github.com/vladislavdragonenkov/crm/internal/service/heartbeat"
	"github.com/vladislavdragonenkov/crm/internal/service/query"
)

func main() {
	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "heartbeat-cmd")

	cfg := app.ConfigFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize storage")
	}
	defer deps.Close()

	queries := query.NewService(deps.Customers, deps.Products, deps.Orders)

	worker := heartbeat.NewWorker(
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

	logger.WithFields(log.Fields{
		"heartbeat_log": cfg.HeartbeatLogPath,
		"reminder_log":  cfg.ReminderLogPath,
	}).Info("запускаем heartbeat воркеры")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		scanner.Run(ctx)
	}()
	wg.Wait()

	logger.Info("heartbeat воркеры остановлены")
}
