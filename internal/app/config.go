package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Драйверы хранилища, поддерживаемые приложением.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr string
	OpsAddr  string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	KafkaBrokers string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int

	HeartbeatEnabled  bool
	HeartbeatLogPath  string
	HeartbeatInterval time.Duration
	HeartbeatHelloURL string
	ReminderLogPath   string
	ReminderInterval  time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию: in-memory хранилище
// и адреса, совпадающие с исторической раскладкой портов CRM.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8000",
		OpsAddr:             ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		HeartbeatLogPath:    "/tmp/crm_heartbeat_log.txt",
		HeartbeatInterval:   5 * time.Minute,
		ReminderLogPath:     "/tmp/order_reminders_log.txt",
		ReminderInterval:    24 * time.Hour,
	}
}

// ConfigFromEnv читает конфигурацию из переменных окружения CRM_*,
// начиная с значений по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CRM_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("CRM_OPS_ADDR"); v != "" {
		cfg.OpsAddr = v
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("CRM_STORAGE_DRIVER"))); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("CRM_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("CRM_POSTGRES_AUTO_MIGRATE"); v != "" {
		cfg.PostgresAutoMigrate = parseBool(v, cfg.PostgresAutoMigrate)
	}
	if v := os.Getenv("CRM_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("CRM_OUTBOX_POLL_INTERVAL"); v != "" {
		cfg.OutboxPollInterval = parseDuration(v, cfg.OutboxPollInterval)
	}
	if v := os.Getenv("CRM_OUTBOX_BATCH_SIZE"); v != "" {
		cfg.OutboxBatchSize = parseInt(v, cfg.OutboxBatchSize)
	}
	if v := os.Getenv("CRM_OUTBOX_MAX_ATTEMPTS"); v != "" {
		cfg.OutboxMaxAttempts = parseInt(v, cfg.OutboxMaxAttempts)
	}
	if v := os.Getenv("CRM_HEARTBEAT_ENABLED"); v != "" {
		cfg.HeartbeatEnabled = parseBool(v, cfg.HeartbeatEnabled)
	}
	if v := os.Getenv("CRM_HEARTBEAT_LOG"); v != "" {
		cfg.HeartbeatLogPath = v
	}
	if v := os.Getenv("CRM_HEARTBEAT_INTERVAL"); v != "" {
		cfg.HeartbeatInterval = parseDuration(v, cfg.HeartbeatInterval)
	}
	if v := os.Getenv("CRM_HEARTBEAT_HELLO_URL"); v != "" {
		cfg.HeartbeatHelloURL = v
	}
	if v := os.Getenv("CRM_REMINDER_LOG"); v != "" {
		cfg.ReminderLogPath = v
	}
	if v := os.Getenv("CRM_REMINDER_INTERVAL"); v != "" {
		cfg.ReminderInterval = parseDuration(v, cfg.ReminderInterval)
	}

	return cfg
}

func parseBool(raw string, fallback bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}
