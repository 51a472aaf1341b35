package engine

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/config"
	"github.com/exvulsec/harpoon/model"
)

type State int32

const (
	StateBuilding State = iota
	StateRunning
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

type Options struct {
	EventQueueSize  int
	ActionQueueSize int
	ShutdownTimeout time.Duration
}

// Engine owns the two buses and every registered unit. Registration is only
// valid before Run; once running, components talk exclusively through the
// buses and the engine only drives lifecycle.
type Engine struct {
	eventBus  *Bus[model.Event]
	actionBus *Bus[model.Action]

	collectors []Collector
	strategies []Strategy
	executors  []Executor

	shutdownTimeout time.Duration
	state           atomic.Int32
	cancel          context.CancelFunc
	units           []*unit
}

type unit struct {
	name string
	done chan struct{}
}

func New(opts Options) *Engine {
	if opts.EventQueueSize <= 0 {
		opts.EventQueueSize = 512
	}
	if opts.ActionQueueSize <= 0 {
		opts.ActionQueueSize = 512
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Engine{
		eventBus:        NewBus[model.Event]("events", opts.EventQueueSize),
		actionBus:       NewBus[model.Action]("actions", opts.ActionQueueSize),
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

func NewFromConfig() *Engine {
	return New(Options{
		EventQueueSize:  config.Conf.Engine.EventQueueSize,
		ActionQueueSize: config.Conf.Engine.ActionQueueSize,
		ShutdownTimeout: config.Conf.Engine.ShutdownTimeout,
	})
}

func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) AddCollector(c Collector) error {
	if err := e.checkBuilding(); err != nil {
		return err
	}
	e.collectors = append(e.collectors, c)
	return nil
}

func (e *Engine) AddStrategy(s Strategy) error {
	if err := e.checkBuilding(); err != nil {
		return err
	}
	e.strategies = append(e.strategies, s)
	return nil
}

func (e *Engine) AddExecutor(x Executor) error {
	if err := e.checkBuilding(); err != nil {
		return err
	}
	e.executors = append(e.executors, x)
	return nil
}

func (e *Engine) checkBuilding() error {
	if s := e.State(); s != StateBuilding {
		return fmt.Errorf("engine is %s, registration is only allowed while building", s)
	}
	return nil
}

// Run spawns one goroutine per registered unit and returns immediately.
// Strategies and executors subscribe to their buses before any collector
// starts, so no startup event can slip past a unit. Call Wait to block
// until every unit has exited.
func (e *Engine) Run(ctx context.Context) error {
	if len(e.collectors) == 0 {
		return fmt.Errorf("no collectors registered")
	}
	if !e.state.CompareAndSwap(int32(StateBuilding), int32(StateRunning)) {
		return fmt.Errorf("engine is %s, run is only allowed once while building", e.State())
	}
	if len(e.strategies) == 0 {
		logrus.Warn("no strategies registered, events will be dropped")
	}
	if len(e.executors) == 0 {
		logrus.Warn("no executors registered, actions will be dropped")
	}

	ctx, e.cancel = context.WithCancel(ctx)

	for _, s := range e.strategies {
		sub := e.eventBus.Subscribe(s.Name())
		u := e.addUnit("strategy:" + s.Name())
		go e.runStrategy(ctx, u, s, sub)
	}
	for _, x := range e.executors {
		sub := e.actionBus.Subscribe(x.Name())
		u := e.addUnit("executor:" + x.Name())
		go e.runExecutor(ctx, u, x, sub)
	}
	for _, c := range e.collectors {
		u := e.addUnit("collector:" + c.Name())
		go e.runCollector(ctx, u, c)
	}

	logrus.Infof("engine is running with %d collectors, %d strategies, %d executors",
		len(e.collectors), len(e.strategies), len(e.executors))
	return nil
}

func (e *Engine) addUnit(name string) *unit {
	u := &unit{name: name, done: make(chan struct{})}
	e.units = append(e.units, u)
	return u
}

// Wait blocks until every unit has exited.
func (e *Engine) Wait() {
	for _, u := range e.units {
		<-u.done
	}
}

// Shutdown signals every unit to stop at its next suspension point and
// waits up to the configured timeout. Units still running after the
// deadline are abandoned and reported; they are never force-terminated.
func (e *Engine) Shutdown() error {
	if !e.state.CompareAndSwap(int32(StateRunning), int32(StateShuttingDown)) {
		return fmt.Errorf("engine is %s, shutdown is only allowed while running", e.State())
	}
	logrus.Info("engine is shutting down")
	e.cancel()

	deadline := time.Now().Add(e.shutdownTimeout)
	var stragglers []string
	for _, u := range e.units {
		select {
		case <-u.done:
		case <-time.After(time.Until(deadline)):
			stragglers = append(stragglers, u.name)
		}
	}

	e.state.Store(int32(StateStopped))
	if len(stragglers) > 0 {
		logrus.Warnf("shutdown timed out after %s waiting for %s", e.shutdownTimeout, strings.Join(stragglers, ", "))
		return fmt.Errorf("degraded shutdown, units did not exit: %s", strings.Join(stragglers, ", "))
	}
	logrus.Info("engine stopped")
	return nil
}

func (e *Engine) runCollector(ctx context.Context, u *unit, c Collector) {
	defer close(u.done)

	events, err := c.Events(ctx)
	if err != nil {
		logrus.Errorf("collector %s failed to open its event stream, err is %v", c.Name(), err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				logrus.Infof("collector %s event stream closed", c.Name())
				return
			}
			e.eventBus.Publish(event)
		}
	}
}

func (e *Engine) runStrategy(ctx context.Context, u *unit, s Strategy, sub *Subscription[model.Event]) {
	defer close(u.done)

	submitter := &busSubmitter{bus: e.actionBus}
	e.syncState(ctx, s, submitter)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-sub.C():
			e.processEvent(ctx, s, event, submitter)
		}
	}
}

func (e *Engine) runExecutor(ctx context.Context, u *unit, x Executor, sub *Subscription[model.Action]) {
	defer close(u.done)

	for {
		select {
		case <-ctx.Done():
			return
		case action := <-sub.C():
			e.executeAction(ctx, x, action)
		}
	}
}

func (e *Engine) syncState(ctx context.Context, s Strategy, submitter ActionSubmitter) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("strategy %s panicked while syncing state: %v", s.Name(), r)
		}
	}()
	if err := s.SyncState(ctx, submitter); err != nil {
		logrus.Errorf("strategy %s failed to sync state, err is %v", s.Name(), err)
	}
}

// processEvent bounds one decision: a panic or error on one event never
// takes down the strategy's unit.
func (e *Engine) processEvent(ctx context.Context, s Strategy, event model.Event, submitter ActionSubmitter) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("strategy %s panicked on %s event: %v", s.Name(), event.EventKind(), r)
		}
	}()
	if err := s.ProcessEvent(ctx, event, submitter); err != nil {
		logrus.Errorf("strategy %s failed on %s event, err is %v", s.Name(), event.EventKind(), err)
	}
}

func (e *Engine) executeAction(ctx context.Context, x Executor, action model.Action) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("executor %s panicked on %s action %+v: %v", x.Name(), action.ActionKind(), action, r)
		}
	}()
	if err := x.Execute(ctx, action); err != nil {
		logrus.Errorf("executor %s failed on %s action %+v, err is %v", x.Name(), action.ActionKind(), action, err)
	}
}

type SubscriberStats struct {
	Name   string `json:"name"`
	Queued int    `json:"queued"`
	Lag    uint64 `json:"lag"`
}

type Stats struct {
	State             string            `json:"state"`
	Collectors        int               `json:"collectors"`
	EventSubscribers  []SubscriberStats `json:"event_subscribers"`
	ActionSubscribers []SubscriberStats `json:"action_subscribers"`
}

func (e *Engine) Stats() Stats {
	stats := Stats{
		State:      e.State().String(),
		Collectors: len(e.collectors),
	}
	for _, sub := range e.eventBus.Subscriptions() {
		stats.EventSubscribers = append(stats.EventSubscribers, SubscriberStats{Name: sub.Name(), Queued: sub.Len(), Lag: sub.Lag()})
	}
	for _, sub := range e.actionBus.Subscriptions() {
		stats.ActionSubscribers = append(stats.ActionSubscribers, SubscriberStats{Name: sub.Name(), Queued: sub.Len(), Lag: sub.Lag()})
	}
	return stats
}
