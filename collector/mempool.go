package collector

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type mempoolCollector struct {
	gethClient *gethclient.Client
	evmClient  *ethclient.Client
}

// NewMempoolCollector subscribes to pending transaction hashes and resolves
// each to the full transaction. Hashes the node no longer knows are
// dropped silently, which is common right after a block lands.
func NewMempoolCollector(gethClient *gethclient.Client, evmClient *ethclient.Client) engine.Collector {
	return &mempoolCollector{gethClient: gethClient, evmClient: evmClient}
}

func (mc *mempoolCollector) Name() string {
	return "MempoolCollector"
}

func (mc *mempoolCollector) Events(ctx context.Context) (<-chan model.Event, error) {
	hashes := make(chan common.Hash, 256)
	sub, err := mc.gethClient.SubscribePendingTransactions(ctx, hashes)
	if err != nil {
		return nil, fmt.Errorf("subscribe to pending transactions is err: %v", err)
	}
	logrus.Info("subscribe to pending transactions...")

	events := make(chan model.Event)
	go func() {
		defer close(events)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				logrus.Errorf("pending transaction subscription is err: %v", err)
				return
			case hash := <-hashes:
				tx, _, err := mc.evmClient.TransactionByHash(ctx, hash)
				if err != nil {
					continue
				}
				select {
				case events <- model.PendingTxEvent{Transaction: tx}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}
