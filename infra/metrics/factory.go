package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/linebalance/core/factory"
	coremetrics "github.com/kilianp07/linebalance/core/metrics"
)

// InfluxConfig configures the influx sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// SkipHealthCheck builds the sink without pinging the server first.
	SkipHealthCheck bool `json:"skip_health_check"`
}

// JSONLConfig configures the calculation history sink.
type JSONLConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// init registers built-in metrics sinks.
func init() {
	coremetrics.MustRegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	coremetrics.MustRegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		// The /metrics listener is configured on the server, not on the sink.
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	coremetrics.MustRegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.SkipHealthCheck {
			return NewInfluxSink(c.URL, c.Token, c.Org, c.Bucket), nil
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})

	coremetrics.MustRegisterMetricsSink("jsonl", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c JSONLConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "calculations.jsonl"
		}
		return NewJSONLSink(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
}
