package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/linebalance/config"
	coremon "github.com/kilianp07/linebalance/core/monitoring"
)

func TestNewSentryMonitorDisabled(t *testing.T) {
	m, err := NewSentryMonitor(config.MonitoringConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitorInvalidDSN(t *testing.T) {
	_, err := NewSentryMonitor(config.MonitoringConfig{DSN: "::not a dsn"})
	assert.Error(t, err)
}

func TestSentryMonitorSendsEvents(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dsn := strings.Replace(srv.URL, "http://", "http://public@", 1) + "/1"
	m, err := NewSentryMonitor(config.MonitoringConfig{DSN: dsn, Environment: "test"})
	require.NoError(t, err)
	m.CaptureException(errors.New("scenario store unavailable"), map[string]string{"op": "save scenario"})
	m.Flush(2 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, bodies)
	assert.Contains(t, bodies[0], "scenario store unavailable")
	assert.Contains(t, bodies[0], "save scenario")
	assert.Contains(t, bodies[0], ServiceTag)
}
