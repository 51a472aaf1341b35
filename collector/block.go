package collector

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type blockCollector struct {
	client *ethclient.Client
}

// NewBlockCollector emits one NewBlockEvent per chain head. It requires a
// websocket backed client.
func NewBlockCollector(client *ethclient.Client) engine.Collector {
	return &blockCollector{client: client}
}

func (bc *blockCollector) Name() string {
	return "BlockCollector"
}

func (bc *blockCollector) Events(ctx context.Context) (<-chan model.Event, error) {
	headers := make(chan *types.Header)
	sub, err := bc.client.SubscribeNewHead(ctx, headers)
	if err != nil {
		return nil, fmt.Errorf("subscribe to the latest blocks is err: %v", err)
	}
	logrus.Info("subscribe to the latest blocks...")

	events := make(chan model.Event)
	go func() {
		defer close(events)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				logrus.Errorf("block subscription is err: %v", err)
				return
			case header := <-headers:
				select {
				case events <- model.NewBlockEvent{Header: header}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}
