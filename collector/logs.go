package collector

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type logsInBlockCollector struct {
	client *ethclient.Client
	query  ethereum.FilterQuery
}

// NewLogsInBlockCollector emits the filtered logs of every new block
// together with its header. A block whose logs cannot be fetched is
// skipped, not retried.
func NewLogsInBlockCollector(client *ethclient.Client, query ethereum.FilterQuery) engine.Collector {
	return &logsInBlockCollector{client: client, query: query}
}

func (lc *logsInBlockCollector) Name() string {
	return "LogsInBlockCollector"
}

func (lc *logsInBlockCollector) Events(ctx context.Context) (<-chan model.Event, error) {
	headers := make(chan *types.Header)
	sub, err := lc.client.SubscribeNewHead(ctx, headers)
	if err != nil {
		return nil, fmt.Errorf("subscribe to the latest blocks is err: %v", err)
	}

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
				hash := header.Hash()
				query := lc.query
				query.BlockHash = &hash
				logs, err := lc.client.FilterLogs(ctx, query)
				if err != nil {
					logrus.Errorf("get logs in block %s is err: %v", hash, err)
					continue
				}
				select {
				case events <- model.BlockLogsEvent{Header: header, Logs: logs}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}
