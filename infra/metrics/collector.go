package metrics

import (
	"context"

	"github.com/kilianp07/linebalance/core/events"
	coremetrics "github.com/kilianp07/linebalance/core/metrics"
	"github.com/kilianp07/linebalance/internal/eventbus"
)

// StartPhaseCollector subscribes to the phase bus and records a timing for
// every phase event when sink implements PhaseRecorder. It stops when the
// context is canceled or the bus is closed. The returned channel is closed
// once the collector has exited.
func StartPhaseCollector(ctx context.Context, bus *eventbus.Bus[events.PhaseEvent], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.PhaseRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				_ = rec.RecordPhase(coremetrics.PhaseTiming{
					CalculationID: ev.CalculationID,
					Phase:         ev.Phase.String(),
					Elapsed:       ev.Elapsed,
					Time:          ev.Time,
				})
			}
		}
	}()
	return done
}
