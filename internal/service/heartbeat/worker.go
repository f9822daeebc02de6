// Package heartbeat пишет периодические отметки здоровья CRM и напоминания
// о необработанных заказах в append-only журналы.
package heartbeat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	heartbeatLayout     = "02/01/2006-15:04:05"
	defaultInterval     = 5 * time.Minute
	defaultProbeTimeout = 5 * time.Second
)

// WorkerOptions задаёт параметры heartbeat worker.
type WorkerOptions struct {
	Logger       *log.Entry
	HelloURL     string
	Interval     time.Duration
	ProbeTimeout time.Duration
	Clock        func() time.Time
}

// Option настраивает Worker.
type Option func(*WorkerOptions)

// WithLogger задаёт logger для воркера.
func WithLogger(logger *log.Entry) Option {
	return func(opts *WorkerOptions) {
		opts.Logger = logger
	}
}

// WithHelloProbe включает проверку доступности hello-эндпоинта API.
func WithHelloProbe(url string) Option {
	return func(opts *WorkerOptions) {
		opts.HelloURL = url
	}
}

// WithInterval задаёт период записи heartbeat.
func WithInterval(interval time.Duration) Option {
	return func(opts *WorkerOptions) {
		opts.Interval = interval
	}
}

// WithClock задаёт источник времени. Используется в тестах.
func WithClock(now func() time.Time) Option {
	return func(opts *WorkerOptions) {
		opts.Clock = now
	}
}

// Worker периодически дописывает отметку живости в журнал и опционально
// проверяет hello-эндпоинт API.
type Worker struct {
	logPath  string
	helloURL string
	client   *http.Client
	logger   *log.Entry
	interval time.Duration
	now      func() time.Time
}

// NewWorker создаёт heartbeat worker, пишущий в файл logPath.
func NewWorker(logPath string, options ...Option) *Worker {
	opts := WorkerOptions{
		Interval:     defaultInterval,
		ProbeTimeout: defaultProbeTimeout,
		Clock:        time.Now,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "heartbeat")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}

	return &Worker{
		logPath:  logPath,
		helloURL: opts.HelloURL,
		client:   &http.Client{Timeout: opts.ProbeTimeout},
		logger:   logger,
		interval: opts.Interval,
		now:      opts.Clock,
	}
}

// Run пишет heartbeat с заданным периодом до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Beat(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Beat(ctx)
		}
	}
}

// Beat выполняет одну итерацию: отметка живости плюс, если настроен,
// результат опроса hello-эндпоинта.
func (w *Worker) Beat(ctx context.Context) {
	timestamp := w.now().Format(heartbeatLayout)

	if err := appendLine(w.logPath, fmt.Sprintf("%s CRM is alive\n", timestamp)); err != nil {
		w.logger.WithError(err).Warn("failed to write heartbeat log")
		return
	}

	if w.helloURL == "" {
		return
	}

	line := w.probeHello(ctx, timestamp)
	if err := appendLine(w.logPath, line); err != nil {
		w.logger.WithError(err).Warn("failed to write heartbeat probe result")
	}
}

func (w *Worker) probeHello(ctx context.Context, timestamp string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.helloURL, nil)
	if err != nil {
		return fmt.Sprintf("%s GraphQL endpoint error: %v\n", timestamp, err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Sprintf("%s GraphQL endpoint error: %v\n", timestamp, err)
	}
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		return fmt.Sprintf("%s GraphQL endpoint error: Invalid response format\n", timestamp)
	}
	return fmt.Sprintf("%s GraphQL endpoint responsive: %s\n", timestamp, body.Message)
}

func appendLine(path, line string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}
