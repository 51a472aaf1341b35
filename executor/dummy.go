package executor

import (
	"context"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type dummyExecutor struct{}

// NewDummyExecutor accepts every action and does nothing, which is useful
// when checking that collectors and strategies wire up correctly.
func NewDummyExecutor() engine.Executor {
	return dummyExecutor{}
}

func (dummyExecutor) Name() string {
	return "DummyExecutor"
}

func (dummyExecutor) Execute(ctx context.Context, action model.Action) error {
	return nil
}
