package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type recordExecutor struct {
	chain string
}

// NewRecordExecutor writes an audit row to postgresql for every action the
// pipeline dispatches.
func NewRecordExecutor(chain string) engine.Executor {
	return &recordExecutor{chain: chain}
}

func (re *recordExecutor) Name() string {
	return "RecordExecutor"
}

func (re *recordExecutor) Execute(ctx context.Context, action model.Action) error {
	record := model.ActionRecord{
		Chain:     re.chain,
		Kind:      action.ActionKind(),
		Detail:    fmt.Sprintf("%+v", action),
		CreatedAt: time.Now(),
	}
	return record.Create()
}
