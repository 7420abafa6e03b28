package metrics

import (
	"context"
	"sync"

	coremetrics "github.com/kilianp07/elcircuit/core/metrics"
	"github.com/kilianp07/elcircuit/core/model"
	"github.com/kilianp07/elcircuit/infra/logger"
	"github.com/kilianp07/elcircuit/internal/eventbus"
)

// StartEventCollector drains the snapshot and transition subscriptions into
// sink until the context is canceled or both subscriptions are closed. The
// returned WaitGroup completes once the collector goroutine has exited.
// Sink errors are logged and never stop the collector.
func StartEventCollector(
	ctx context.Context,
	snapshots *eventbus.Subscription[model.Snapshot],
	transitions *eventbus.Subscription[model.TransitionEvent],
	sink coremetrics.MetricsSink,
	log logger.Logger,
) *sync.WaitGroup {
	var wg sync.WaitGroup
	if snapshots == nil || sink == nil {
		return &wg
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	recorder, _ := sink.(coremetrics.TransitionRecorder)
	var transC <-chan model.TransitionEvent
	if transitions != nil {
		transC = transitions.C()
	}
	snapC := snapshots.C()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for snapC != nil || transC != nil {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snapC:
				if !ok {
					snapC = nil
					continue
				}
				if err := sink.RecordSnapshot(snap); err != nil {
					log.Warnf("record snapshot %d: %v", snap.Tick, err)
				}
			case ev, ok := <-transC:
				if !ok {
					transC = nil
					continue
				}
				if recorder == nil {
					continue
				}
				if err := recorder.RecordTransition(ev); err != nil {
					log.Warnf("record transition %s->%s: %v", ev.From, ev.To, err)
				}
			}
		}
	}()
	return &wg
}
