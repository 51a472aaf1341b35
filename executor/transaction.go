package executor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
	"github.com/exvulsec/harpoon/service"
)

type transactionExecutor struct {
	client *ethclient.Client
	relay  *service.BloXrouteClient
}

// NewTransactionExecutor broadcasts submitted transactions. Private actions
// go through the bloXroute relay when one is configured, everything else
// through the public mempool. Submission is not retried; a strategy that
// needs at-least-once delivery has to resubmit.
func NewTransactionExecutor(client *ethclient.Client, relay *service.BloXrouteClient) engine.Executor {
	return &transactionExecutor{client: client, relay: relay}
}

func (te *transactionExecutor) Name() string {
	return "TransactionExecutor"
}

func (te *transactionExecutor) Execute(ctx context.Context, action model.Action) error {
	submit, ok := action.(model.SubmitTxAction)
	if !ok {
		return nil
	}

	if submit.Private {
		if te.relay == nil {
			return fmt.Errorf("got a private tx but no relay is configured")
		}
		return te.relay.SendPrivateTx(ctx, submit.RawTx)
	}

	if submit.Transaction == nil {
		return fmt.Errorf("got a public submit action without a transaction")
	}
	if err := te.client.SendTransaction(ctx, submit.Transaction); err != nil {
		return fmt.Errorf("send transaction %s is err: %v", submit.Transaction.Hash(), err)
	}
	logrus.Infof("sent tx %s", submit.Transaction.Hash())
	return nil
}
