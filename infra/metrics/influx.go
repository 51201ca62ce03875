package metrics

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/samber/lo"

	coremetrics "github.com/kilianp07/linebalance/core/metrics"
	"github.com/kilianp07/linebalance/infra/logger"
)

// InfluxSink writes calculation events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

// RecordCalculation writes one point per calculation.
func (s *InfluxSink) RecordCalculation(ev coremetrics.CalculationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("baseline_calculation").
		AddTag("calculation_id", ev.CalculationID).
		AddTag("status", ev.Status()).
		AddField("houses", ev.Houses).
		AddField("packages", ev.Packages).
		AddField("total_weeks", ev.TotalWeeks).
		AddField("total_cost", ev.TotalCost).
		AddField("elapsed_ms", elapsedMillis(ev.Elapsed)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPhase writes the time a calculation took to reach a phase.
func (s *InfluxSink) RecordPhase(pt coremetrics.PhaseTiming) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("baseline_phase").
		AddTag("calculation_id", pt.CalculationID).
		AddTag("phase", pt.Phase).
		AddField("elapsed_ms", elapsedMillis(pt.Elapsed)).
		SetTime(pt.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFinancialSeries writes the weekly cost curve in a single request.
// Each week is stamped with its calendar start date; package costs are
// written as separate points tagged with the package name.
func (s *InfluxSink) RecordFinancialSeries(fs coremetrics.FinancialSeries) error {
	if len(fs.Series) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(fs.Series))
	for i, w := range fs.Series {
		ts := time.Unix(0, 0).UTC()
		if i < len(fs.Weeks) {
			ts = fs.Weeks[i].StartDate
		}
		points = append(points, write.NewPointWithMeasurement("baseline_financial_week").
			AddTag("calculation_id", fs.CalculationID).
			AddTag("week", strconv.Itoa(w.WeekIndex)).
			AddField("weekly_cost", w.WeeklyCost).
			AddField("cumulative_cost", w.CumulativeCost).
			AddField("active_houses", w.ActiveHouses).
			SetTime(ts))
		names := lo.Keys(w.PackageCosts)
		slices.Sort(names)
		for _, name := range names {
			points = append(points, write.NewPointWithMeasurement("baseline_package_week").
				AddTag("calculation_id", fs.CalculationID).
				AddTag("package", name).
				AddTag("week", strconv.Itoa(w.WeekIndex)).
				AddField("cost", w.PackageCosts[name]).
				SetTime(ts))
		}
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordScenario writes a scenario store operation.
func (s *InfluxSink) RecordScenario(ev coremetrics.ScenarioEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("scenario_operation").
		AddTag("scenario_id", ev.ScenarioID).
		AddTag("action", ev.Action).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func elapsedMillis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
