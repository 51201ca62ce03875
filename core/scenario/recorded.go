package scenario

import (
	"time"

	"github.com/kilianp07/linebalance/core/logger"
	"github.com/kilianp07/linebalance/core/metrics"
)

// RecordedStore reports successful writes to a metrics sink implementing
// metrics.ScenarioRecorder.
type RecordedStore struct {
	Store
	rec metrics.ScenarioRecorder
	log logger.Logger
	now func() time.Time
}

// WithMetrics wraps s so that saves and deletes are recorded on sink. It
// returns s unchanged when sink does not record scenario operations.
func WithMetrics(s Store, sink metrics.MetricsSink, log logger.Logger) Store {
	rec, ok := sink.(metrics.ScenarioRecorder)
	if !ok {
		return s
	}
	return &RecordedStore{Store: s, rec: rec, log: logger.OrNop(log), now: time.Now}
}

func (r *RecordedStore) Save(sc Scenario) (Scenario, error) {
	saved, err := r.Store.Save(sc)
	if err != nil {
		return saved, err
	}
	action := "create"
	if saved.Version > 1 {
		action = "update"
	}
	r.record(saved.ID, action)
	return saved, nil
}

func (r *RecordedStore) Delete(id string) error {
	if err := r.Store.Delete(id); err != nil {
		return err
	}
	r.record(id, "delete")
	return nil
}

func (r *RecordedStore) record(id, action string) {
	if err := r.rec.RecordScenario(metrics.ScenarioEvent{ScenarioID: id, Action: action, Time: r.now()}); err != nil {
		r.log.Errorf("scenario metrics error: %v", err)
	}
}
