package executor

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/datastore"
	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type queueExecutor struct{}

// NewQueueExecutor pushes queue actions onto their redis stream so
// consumers outside this process can pick them up.
func NewQueueExecutor() engine.Executor {
	return queueExecutor{}
}

func (queueExecutor) Name() string {
	return "QueueExecutor"
}

func (queueExecutor) Execute(ctx context.Context, action model.Action) error {
	queue, ok := action.(model.QueueAction)
	if !ok {
		return nil
	}
	if queue.Stream == "" {
		return fmt.Errorf("queue action without a stream name")
	}
	if err := datastore.Redis().XAdd(ctx, &redis.XAddArgs{
		Stream: queue.Stream,
		Values: queue.Values,
	}).Err(); err != nil {
		return fmt.Errorf("xadd to stream %s is err: %v", queue.Stream, err)
	}
	logrus.Infof("pushed item to the stream %s", queue.Stream)
	return nil
}
