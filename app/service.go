package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apibaseline "github.com/kilianp07/linebalance/api/baseline"
	"github.com/kilianp07/linebalance/config"
	"github.com/kilianp07/linebalance/core/baseline"
	"github.com/kilianp07/linebalance/core/events"
	coremetrics "github.com/kilianp07/linebalance/core/metrics"
	coremon "github.com/kilianp07/linebalance/core/monitoring"
	"github.com/kilianp07/linebalance/core/scenario"
	"github.com/kilianp07/linebalance/infra/logger"
	"github.com/kilianp07/linebalance/infra/metrics"
	"github.com/kilianp07/linebalance/infra/monitoring"
	infrascenario "github.com/kilianp07/linebalance/infra/scenario"
	"github.com/kilianp07/linebalance/internal/eventbus"
)

// Service wires the calculator, metrics sinks, phase bus and scenario store.
type Service struct {
	Calculator *baseline.Calculator
	Store      scenario.Store
	Sink       coremetrics.MetricsSink
	Bus        *eventbus.Bus[events.PhaseEvent]

	cfg *config.Config
	log logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Monitoring)
	if err != nil {
		return nil, fmt.Errorf("monitoring: %w", err)
	}
	coremon.Init(mon)
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := infrascenario.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("scenario store: %w", err)
	}
	bus := eventbus.New[events.PhaseEvent](eventbus.DefaultBuffer)
	calc := baseline.NewCalculator(cfg.Engine, sink, bus, logger.New("calculator"))
	return &Service{
		Calculator: calc,
		Store:      scenario.WithMetrics(store, sink, logger.New("scenario-store")),
		Sink:       sink,
		Bus:        bus,
		cfg:        cfg,
		log:        logg,
	}, nil
}

// StartCollectors records phase timings on the metrics sink until ctx is
// canceled.
func (s *Service) StartCollectors(ctx context.Context) <-chan struct{} {
	return metrics.StartPhaseCollector(ctx, s.Bus, s.Sink)
}

// Serve runs the HTTP API, and the /metrics listener when configured, until
// the context is cancelled.
func (s *Service) Serve(ctx context.Context) error {
	s.StartCollectors(ctx)
	if addr := s.cfg.Server.MetricsAddress; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	h := apibaseline.NewHandler(s.Calculator, s.Store, logger.New("api"), s.cfg.Server.MaxBodyBytes)
	srv := &http.Server{Addr: s.cfg.Server.Address, Handler: h.Routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", s.cfg.Server.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.Bus.Close()
	coremon.Flush(2 * time.Second)
	var errs []error
	if c, ok := s.Sink.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, s.Store.Close())
	return errors.Join(errs...)
}
