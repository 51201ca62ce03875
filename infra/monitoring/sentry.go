// Package monitoring reports engine and API failures to Sentry.
package monitoring

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/linebalance/config"
	coremon "github.com/kilianp07/linebalance/core/monitoring"
)

// ServiceTag is attached to every reported event.
const ServiceTag = "linebalance"

// NewSentryMonitor returns a Monitor backed by its own Sentry client, so the
// process-wide sentry hub is left untouched. An empty DSN disables reporting.
func NewSentryMonitor(cfg config.MonitoringConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	scope := sentry.NewScope()
	scope.SetTag("service", ServiceTag)
	return &sentryMonitor{hub: sentry.NewHub(client, scope)}, nil
}

type sentryMonitor struct {
	hub *sentry.Hub
}

// CaptureException reports err with tags added to a scope of its own.
func (m *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	m.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		m.hub.CaptureException(err)
	})
}

func (m *sentryMonitor) Flush(timeout time.Duration) { m.hub.Flush(timeout) }
