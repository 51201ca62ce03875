package metrics_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/linebalance/core/factory"
	metrics "github.com/kilianp07/linebalance/core/metrics"
	_ "github.com/kilianp07/linebalance/infra/metrics"
)

func TestBuiltinSinkTypes(t *testing.T) {
	types := metrics.MetricsSinkTypes()
	assert.Subset(t, types, []string{"influx", "jsonl", "nop", "prometheus"})
	assert.IsIncreasing(t, types)
}

func TestNewMetricsSinkShapes(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	path := filepath.Join(t.TempDir(), "calc.jsonl")
	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{
		{Type: "nop"},
		{Type: "jsonl", Conf: map[string]any{"path": path}},
	})
	require.NoError(t, err)
	m, ok := s.(*metrics.MultiSink)
	require.True(t, ok, "expected MultiSink, got %T", s)
	assert.Len(t, m.Sinks, 2)
	require.NoError(t, m.Close())
}

func TestNewMetricsSinkUnknownType(t *testing.T) {
	_, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "statsd"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, factory.ErrUnknownType))
	assert.Contains(t, err.Error(), "sinks[1]")
}

func TestRegisterMetricsSinkDuplicate(t *testing.T) {
	err := metrics.RegisterMetricsSink("nop", func(map[string]any) (metrics.MetricsSink, error) {
		return metrics.NopSink{}, nil
	})
	assert.Error(t, err)
}
