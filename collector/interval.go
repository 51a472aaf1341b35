package collector

import (
	"context"
	"time"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type intervalCollector struct {
	interval time.Duration
}

// NewIntervalCollector emits a TickEvent on a fixed interval, for
// strategies that need a clock alongside chain events.
func NewIntervalCollector(interval time.Duration) engine.Collector {
	return &intervalCollector{interval: interval}
}

func (ic *intervalCollector) Name() string {
	return "IntervalCollector"
}

func (ic *intervalCollector) Events(ctx context.Context) (<-chan model.Event, error) {
	events := make(chan model.Event)
	go func() {
		defer close(events)
		ticker := time.NewTicker(ic.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				select {
				case events <- model.TickEvent{Time: now}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}
