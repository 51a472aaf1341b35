package collector

import (
	"context"
	"testing"
	"time"

	"github.com/magiconair/properties/assert"

	"github.com/exvulsec/harpoon/model"
)

func TestIntervalCollectorTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ic := NewIntervalCollector(5 * time.Millisecond)
	events, err := ic.Events(ctx)
	if err != nil {
		t.Fatalf("open event stream is err: %v", err)
	}

	first := (<-events).(model.TickEvent)
	second := (<-events).(model.TickEvent)
	assert.Equal(t, second.Time.After(first.Time), true)
}

func TestIntervalCollectorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ic := NewIntervalCollector(time.Millisecond)
	events, err := ic.Events(ctx)
	if err != nil {
		t.Fatalf("open event stream is err: %v", err)
	}
	<-events
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event stream did not close after cancel")
		}
	}
}
