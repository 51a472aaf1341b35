package strategy

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
)

type transferStrategy struct {
	chain     string
	threshold decimal.Decimal
	flagged   uint64
}

// NewTransferStrategy flags native transfers at or above thresholdEther.
// It watches both mined full blocks and pending transactions.
func NewTransferStrategy(chain string, thresholdEther decimal.Decimal) engine.Strategy {
	return &transferStrategy{chain: chain, threshold: thresholdEther}
}

func (ts *transferStrategy) Name() string {
	return "TransferStrategy"
}

func (ts *transferStrategy) SyncState(ctx context.Context, submitter engine.ActionSubmitter) error {
	return nil
}

func (ts *transferStrategy) ProcessEvent(ctx context.Context, event model.Event, submitter engine.ActionSubmitter) error {
	switch e := event.(type) {
	case model.FullBlockEvent:
		for _, tx := range e.Block.Transactions() {
			ts.checkTransfer(tx, "mined", submitter)
		}
	case model.PendingTxEvent:
		ts.checkTransfer(e.Transaction, "pending", submitter)
	}
	return nil
}

func (ts *transferStrategy) checkTransfer(tx *types.Transaction, status string, submitter engine.ActionSubmitter) {
	if tx.Value().Sign() <= 0 {
		return
	}
	etherValue := decimal.NewFromBigInt(tx.Value(), -18)
	if etherValue.LessThan(ts.threshold) {
		return
	}
	ts.flagged++

	to := "contract creation"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	submitter.Submit(model.NotifyAction{
		Level: model.NotifyLevelWarning,
		Title: "large transfer",
		Text: fmt.Sprintf("chain: %s\ntx: %s\nto: %s\nvalue: %s ETH\nstatus: %s",
			ts.chain, tx.Hash().Hex(), to, etherValue.String(), status),
	})
}
