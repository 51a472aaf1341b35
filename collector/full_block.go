package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type fullBlockCollector struct {
	client        *ethclient.Client
	retryInterval time.Duration
}

// NewFullBlockCollector follows the chain head and emits the full block
// body for every new header. The node may not have the body indexed the
// moment the header arrives, so a missing block is retried.
func NewFullBlockCollector(client *ethclient.Client) engine.Collector {
	return NewFullBlockCollectorWithConfig(client, 50*time.Millisecond)
}

func NewFullBlockCollectorWithConfig(client *ethclient.Client, retryInterval time.Duration) engine.Collector {
	return &fullBlockCollector{client: client, retryInterval: retryInterval}
}

func (fc *fullBlockCollector) Name() string {
	return "FullBlockCollector"
}

func (fc *fullBlockCollector) Events(ctx context.Context) (<-chan model.Event, error) {
	headers := make(chan *types.Header)
	sub, err := fc.client.SubscribeNewHead(ctx, headers)
	if err != nil {
		return nil, fmt.Errorf("subscribe to the latest blocks is err: %v", err)
	}

	events := make(chan model.Event)
	go func() {
		defer close(events)
		defer sub.Unsubscribe()
		attempts := 0
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				logrus.Errorf("block subscription is err: %v", err)
				return
			case header := <-headers:
				block, ok := fc.fetchBlock(ctx, header, &attempts)
				if !ok {
					continue
				}
				select {
				case events <- model.FullBlockEvent{Block: block}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}

func (fc *fullBlockCollector) fetchBlock(ctx context.Context, header *types.Header, attempts *int) (*types.Block, bool) {
	for {
		block, err := fc.client.BlockByNumber(ctx, header.Number)
		if err == nil {
			return block, true
		}
		if errors.Is(err, ethereum.NotFound) {
			if *attempts%5 == 0 {
				logrus.Warnf("block %d not found yet", header.Number.Uint64())
			}
			*attempts++
			select {
			case <-time.After(fc.retryInterval):
				continue
			case <-ctx.Done():
				return nil, false
			}
		}
		logrus.Errorf("get full block %d is err: %v", header.Number.Uint64(), err)
		return nil, false
	}
}
