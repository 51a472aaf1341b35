package engine

import (
	"context"

	"github.com/exvulsec/harpoon/model"
)

// Collector produces an unbounded sequence of events from one origin. The
// returned channel is owned by the collector and closed when the origin
// terminates; the engine drains it onto the event bus. A collector must
// stop producing and release its origin when ctx is cancelled.
type Collector interface {
	Name() string
	Events(ctx context.Context) (<-chan model.Event, error)
}

// ActionSubmitter is the only path a strategy has for emitting actions.
type ActionSubmitter interface {
	Submit(action model.Action)
}

// Strategy consumes events one at a time from its own subscription and
// submits zero or more actions per event. SyncState runs once before the
// first event and may seed private state from current chain state.
type Strategy interface {
	Name() string
	SyncState(ctx context.Context, submitter ActionSubmitter) error
	ProcessEvent(ctx context.Context, event model.Event, submitter ActionSubmitter) error
}

// Executor performs the side effect described by one action. Errors are
// logged by the engine and never retried; executors doing irreversible work
// own their idempotence policy.
type Executor interface {
	Name() string
	Execute(ctx context.Context, action model.Action) error
}
