package heartbeat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWorkerBeatWritesHeartbeatLine(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "crm_heartbeat_log.txt")
	fixed := time.Date(2025, 9, 17, 10, 30, 0, 0, time.UTC)

	worker := NewWorker(logPath, WithClock(fixedClock(fixed)))
	worker.Beat(context.Background())
	worker.Beat(context.Background())

	content := readLog(t, logPath)
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "17/09/2025-10:30:00 CRM is alive", lines[0])
	assert.Equal(t, "17/09/2025-10:30:00 CRM is alive", lines[1])
}

func TestWorkerBeatProbesHelloEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Hello, GraphQL!"}`))
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "crm_heartbeat_log.txt")
	fixed := time.Date(2025, 9, 17, 10, 30, 0, 0, time.UTC)

	worker := NewWorker(logPath, WithClock(fixedClock(fixed)), WithHelloProbe(server.URL))
	worker.Beat(context.Background())

	content := readLog(t, logPath)
	assert.Contains(t, content, "17/09/2025-10:30:00 CRM is alive\n")
	assert.Contains(t, content, "17/09/2025-10:30:00 GraphQL endpoint responsive: Hello, GraphQL!\n")
}

func TestWorkerBeatRecordsProbeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "crm_heartbeat_log.txt")
	worker := NewWorker(logPath, WithHelloProbe(server.URL))
	worker.Beat(context.Background())

	content := readLog(t, logPath)
	assert.Contains(t, content, "GraphQL endpoint error: Invalid response format")
}

func TestWorkerRunStopsOnContextCancel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "crm_heartbeat_log.txt")
	worker := NewWorker(logPath, WithInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
