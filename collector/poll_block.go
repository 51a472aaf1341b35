package collector

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type pollBlockCollector struct {
	client       *ethclient.Client
	interval     time.Duration
	currentBlock uint64
}

// NewPollBlockCollector polls the latest full block on an interval, for
// providers without websocket subscriptions. Blocks already seen are not
// emitted again.
func NewPollBlockCollector(client *ethclient.Client, interval time.Duration) engine.Collector {
	return &pollBlockCollector{client: client, interval: interval}
}

func (pc *pollBlockCollector) Name() string {
	return "PollBlockCollector"
}

func (pc *pollBlockCollector) Events(ctx context.Context) (<-chan model.Event, error) {
	events := make(chan model.Event)
	go func() {
		defer close(events)
		ticker := time.NewTicker(pc.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				block, err := pc.client.BlockByNumber(ctx, nil)
				if err != nil {
					logrus.Errorf("get latest block is err: %v", err)
					continue
				}
				if block.NumberU64() <= pc.currentBlock {
					continue
				}
				pc.currentBlock = block.NumberU64()
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
