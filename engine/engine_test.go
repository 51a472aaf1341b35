package engine

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/magiconair/properties/assert"

	"github.com/exvulsec/harpoon/model"
)

type sliceCollector struct {
	name   string
	events []model.Event
}

func (c *sliceCollector) Name() string {
	return c.name
}

func (c *sliceCollector) Events(ctx context.Context) (<-chan model.Event, error) {
	ch := make(chan model.Event)
	go func() {
		defer close(ch)
		for _, event := range c.events {
			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

type funcStrategy struct {
	name string
	fn   func(ctx context.Context, event model.Event, submitter ActionSubmitter) error
}

func (s *funcStrategy) Name() string {
	return s.name
}

func (s *funcStrategy) SyncState(ctx context.Context, submitter ActionSubmitter) error {
	return nil
}

func (s *funcStrategy) ProcessEvent(ctx context.Context, event model.Event, submitter ActionSubmitter) error {
	return s.fn(ctx, event, submitter)
}

type recordExecutor struct {
	name string
	mu   sync.Mutex
	got  []model.Action
	fail func(action model.Action) error
}

func (x *recordExecutor) Name() string {
	return x.name
}

func (x *recordExecutor) Execute(ctx context.Context, action model.Action) error {
	if x.fail != nil {
		if err := x.fail(action); err != nil {
			return err
		}
	}
	x.mu.Lock()
	x.got = append(x.got, action)
	x.mu.Unlock()
	return nil
}

func (x *recordExecutor) actions() []model.Action {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]model.Action{}, x.got...)
}

func blockEvent(number int64) model.Event {
	return model.NewBlockEvent{Header: &types.Header{Number: big.NewInt(number)}}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestRegistrationOnlyWhileBuilding(t *testing.T) {
	e := New(Options{})
	if err := e.AddCollector(&sliceCollector{name: "blocks"}); err != nil {
		t.Fatalf("add collector while building is err: %v", err)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("run is err: %v", err)
	}
	assert.Equal(t, e.State(), StateRunning)

	if err := e.AddCollector(&sliceCollector{name: "late"}); err == nil {
		t.Fatal("expected registration error after run")
	}
	if err := e.AddStrategy(&funcStrategy{name: "late", fn: nil}); err == nil {
		t.Fatal("expected registration error after run")
	}
	if err := e.AddExecutor(&recordExecutor{name: "late"}); err == nil {
		t.Fatal("expected registration error after run")
	}
	_ = e.Shutdown()
}

func TestRunWithoutCollectors(t *testing.T) {
	e := New(Options{})
	if err := e.Run(context.Background()); err == nil {
		t.Fatal("expected configuration error with zero collectors")
	}
	assert.Equal(t, e.State(), StateBuilding)
}

func TestTickAndBlockScenario(t *testing.T) {
	e := New(Options{ShutdownTimeout: time.Second})

	ticks := &sliceCollector{name: "ticks", events: []model.Event{
		model.TickEvent{Time: time.Now()},
		model.TickEvent{Time: time.Now()},
	}}
	blocks := &sliceCollector{name: "blocks", events: []model.Event{
		blockEvent(1),
		blockEvent(2),
	}}
	logger := &funcStrategy{name: "block-logger", fn: func(ctx context.Context, event model.Event, submitter ActionSubmitter) error {
		if block, ok := event.(model.NewBlockEvent); ok {
			submitter.Submit(model.NotifyAction{Title: "block", Text: block.Header.Number.String()})
		}
		return nil
	}}
	recorder := &recordExecutor{name: "recorder"}

	_ = e.AddCollector(ticks)
	_ = e.AddCollector(blocks)
	_ = e.AddStrategy(logger)
	_ = e.AddExecutor(recorder)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("run is err: %v", err)
	}
	waitFor(t, func() bool { return len(recorder.actions()) == 2 })

	got := recorder.actions()
	assert.Equal(t, got[0].(model.NotifyAction).Text, "1")
	assert.Equal(t, got[1].(model.NotifyAction).Text, "2")

	if err := e.Shutdown(); err != nil {
		t.Fatalf("shutdown is err: %v", err)
	}
	assert.Equal(t, e.State(), StateStopped)
	assert.Equal(t, len(recorder.actions()), 2)
}

func TestStrategyFailureIsIsolated(t *testing.T) {
	e := New(Options{ShutdownTimeout: time.Second})

	blocks := &sliceCollector{name: "blocks", events: []model.Event{blockEvent(1), blockEvent(2), blockEvent(3)}}
	flaky := &funcStrategy{name: "flaky", fn: func(ctx context.Context, event model.Event, submitter ActionSubmitter) error {
		block := event.(model.NewBlockEvent)
		switch block.Header.Number.Int64() {
		case 1:
			panic("bad block")
		case 2:
			return fmt.Errorf("decision is err on block 2")
		}
		submitter.Submit(model.NotifyAction{Text: block.Header.Number.String()})
		return nil
	}}
	steady := &funcStrategy{name: "steady", fn: func(ctx context.Context, event model.Event, submitter ActionSubmitter) error {
		block := event.(model.NewBlockEvent)
		submitter.Submit(model.NotifyAction{Title: "steady", Text: block.Header.Number.String()})
		return nil
	}}
	recorder := &recordExecutor{name: "recorder"}

	_ = e.AddCollector(blocks)
	_ = e.AddStrategy(flaky)
	_ = e.AddStrategy(steady)
	_ = e.AddExecutor(recorder)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("run is err: %v", err)
	}
	waitFor(t, func() bool { return len(recorder.actions()) == 4 })
	_ = e.Shutdown()

	flakyTexts := make([]string, 0)
	steadyTexts := make([]string, 0)
	for _, action := range recorder.actions() {
		notify := action.(model.NotifyAction)
		if notify.Title == "steady" {
			steadyTexts = append(steadyTexts, notify.Text)
		} else {
			flakyTexts = append(flakyTexts, notify.Text)
		}
	}
	assert.Equal(t, flakyTexts, []string{"3"})
	assert.Equal(t, steadyTexts, []string{"1", "2", "3"})
}

func TestExecutorFailureIsIsolated(t *testing.T) {
	e := New(Options{ShutdownTimeout: time.Second})

	blocks := &sliceCollector{name: "blocks", events: []model.Event{blockEvent(1), blockEvent(2)}}
	forward := &funcStrategy{name: "forward", fn: func(ctx context.Context, event model.Event, submitter ActionSubmitter) error {
		block := event.(model.NewBlockEvent)
		submitter.Submit(model.NotifyAction{Text: block.Header.Number.String()})
		return nil
	}}
	flaky := &recordExecutor{name: "flaky", fail: func(action model.Action) error {
		if action.(model.NotifyAction).Text == "1" {
			return fmt.Errorf("execute is err on the first action")
		}
		return nil
	}}
	steady := &recordExecutor{name: "steady"}

	_ = e.AddCollector(blocks)
	_ = e.AddStrategy(forward)
	_ = e.AddExecutor(flaky)
	_ = e.AddExecutor(steady)

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("run is err: %v", err)
	}
	waitFor(t, func() bool { return len(flaky.actions()) == 1 && len(steady.actions()) == 2 })
	_ = e.Shutdown()

	assert.Equal(t, flaky.actions()[0].(model.NotifyAction).Text, "2")
	assert.Equal(t, steady.actions()[0].(model.NotifyAction).Text, "1")
	assert.Equal(t, steady.actions()[1].(model.NotifyAction).Text, "2")
}

func TestStrategyStateIsSerialized(t *testing.T) {
	e := New(Options{ShutdownTimeout: time.Second})

	events := make([]model.Event, 0, 50)
	for i := int64(1); i <= 50; i++ {
		events = append(events, blockEvent(i))
	}
	blocks := &sliceCollector{name: "blocks", events: events}

	var inFlight atomic.Int32
	var overlapped atomic.Bool
	seen := make([]int64, 0, 50)
	var mu sync.Mutex
	serial := &funcStrategy{name: "serial", fn: func(ctx context.Context, event model.Event, submitter ActionSubmitter) error {
		if !inFlight.CompareAndSwap(0, 1) {
			overlapped.Store(true)
		}
		mu.Lock()
		seen = append(seen, event.(model.NewBlockEvent).Header.Number.Int64())
		mu.Unlock()
		time.Sleep(time.Millisecond)
		inFlight.Store(0)
		return nil
	}}

	_ = e.AddCollector(blocks)
	_ = e.AddStrategy(serial)
	_ = e.AddExecutor(&recordExecutor{name: "recorder"})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("run is err: %v", err)
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 50
	})
	_ = e.Shutdown()

	assert.Equal(t, overlapped.Load(), false)
	for i, number := range seen {
		assert.Equal(t, number, int64(i+1))
	}
}

func TestShutdownReportsStragglers(t *testing.T) {
	e := New(Options{ShutdownTimeout: 50 * time.Millisecond})

	blocks := &sliceCollector{name: "blocks", events: []model.Event{blockEvent(1)}}
	stuck := &funcStrategy{name: "stuck", fn: func(ctx context.Context, event model.Event, submitter ActionSubmitter) error {
		time.Sleep(2 * time.Second)
		return nil
	}}

	_ = e.AddCollector(blocks)
	_ = e.AddStrategy(stuck)
	_ = e.AddExecutor(&recordExecutor{name: "recorder"})

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("run is err: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	err := e.Shutdown()
	if err == nil {
		t.Fatal("expected degraded shutdown error")
	}
	assert.Equal(t, e.State(), StateStopped)
}
