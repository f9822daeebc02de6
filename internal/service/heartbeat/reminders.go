package heartbeat

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/service/query"
)

const (
	reminderLayout  = "2006-01-02 15:04:05"
	reminderWindow  = 7 * 24 * time.Hour
	defaultScanRate = 24 * time.Hour
)

// ReminderScanner находит pending-заказы за последнюю неделю и дописывает
// по напоминанию на каждый в журнал.
type ReminderScanner struct {
	queries  *query.Service
	logPath  string
	logger   *log.Entry
	interval time.Duration
	now      func() time.Time
}

// NewReminderScanner создаёт сканер напоминаний поверх read-сервиса.
func NewReminderScanner(queries *query.Service, logPath string, options ...Option) *ReminderScanner {
	opts := WorkerOptions{
		Interval: defaultScanRate,
		Clock:    time.Now,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "order-reminders")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultScanRate
	}

	return &ReminderScanner{
		queries:  queries,
		logPath:  logPath,
		logger:   logger,
		interval: opts.Interval,
		now:      opts.Clock,
	}
}

// Run запускает периодическое сканирование до отмены ctx.
func (s *ReminderScanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.Scan(ctx); err != nil {
		s.logger.WithError(err).Warn("order reminder scan failed")
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Scan(ctx); err != nil {
				s.logger.WithError(err).Warn("order reminder scan failed")
			}
		}
	}
}

// Scan выполняет одну итерацию: выбирает pending-заказы за последние 7 дней
// и дописывает напоминания в журнал. Ошибка выборки тоже фиксируется в журнале.
func (s *ReminderScanner) Scan(ctx context.Context) error {
	now := s.now()
	timestamp := now.Format(reminderLayout)

	views, err := s.queries.PendingOrdersSince(now.Add(-reminderWindow))
	if err != nil {
		line := fmt.Sprintf("[%s] ERROR: Failed to process order reminders - %v\n", timestamp, err)
		if writeErr := appendLine(s.logPath, line); writeErr != nil {
			s.logger.WithError(writeErr).Warn("failed to write reminder log")
		}
		return fmt.Errorf("list pending orders: %w", err)
	}

	var lines strings.Builder
	if len(views) == 0 {
		lines.WriteString(fmt.Sprintf("[%s] No pending orders found in the last 7 days\n", timestamp))
	} else {
		for _, view := range views {
			lines.WriteString(fmt.Sprintf(
				"[%s] REMINDER: Order ID %s - Customer: %s (%s) - Ordered: %s\n",
				timestamp,
				view.Order.ID,
				view.Customer.Name,
				view.Customer.Email,
				view.Order.OrderDate.Format(time.RFC3339),
			))
		}
	}

	if err := appendLine(s.logPath, lines.String()); err != nil {
		return fmt.Errorf("write reminder log: %w", err)
	}

	s.logger.WithField("pending_orders", len(views)).Debug("order reminders processed")
	return nil
}
