package strategy

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/config"
	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/etherscan"
	"github.com/exvulsec/harpoon/model"
	"github.com/exvulsec/harpoon/proxydetect"
)

type contractStrategy struct {
	chain        string
	client       *ethclient.Client
	detector     *proxydetect.Detector
	seen         mapset.Set[string]
	currentBlock uint64
}

// NewContractStrategy watches full blocks for contract deployments. Every
// new deployment is checked against the proxy patterns and the scan API,
// then reported as a notification and a queue entry.
func NewContractStrategy(chain string, client *ethclient.Client) engine.Strategy {
	return &contractStrategy{
		chain:    chain,
		client:   client,
		detector: proxydetect.NewDetector(client),
		seen:     mapset.NewSet[string](),
	}
}

func (cs *contractStrategy) Name() string {
	return "ContractStrategy"
}

func (cs *contractStrategy) SyncState(ctx context.Context, submitter engine.ActionSubmitter) error {
	blockNumber, err := cs.client.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("get latest block number is err: %v", err)
	}
	cs.currentBlock = blockNumber
	logrus.Infof("contract strategy synced at block %d", blockNumber)
	return nil
}

func (cs *contractStrategy) ProcessEvent(ctx context.Context, event model.Event, submitter engine.ActionSubmitter) error {
	block, ok := event.(model.FullBlockEvent)
	if !ok {
		return nil
	}
	cs.currentBlock = block.Block.NumberU64()
	for _, tx := range block.Block.Transactions() {
		if tx.To() != nil {
			continue
		}
		if err := cs.processDeployment(ctx, block.Block, tx, submitter); err != nil {
			logrus.Errorf("process deployment in tx %s is err: %v", tx.Hash(), err)
		}
	}
	return nil
}

func (cs *contractStrategy) processDeployment(ctx context.Context, block *types.Block, tx *types.Transaction, submitter engine.ActionSubmitter) error {
	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return fmt.Errorf("recover deployer is err: %v", err)
	}
	contract := crypto.CreateAddress(from, tx.Nonce())
	if !cs.seen.Add(contract.Hex()) {
		return nil
	}

	proxyInfo := "none"
	if result := cs.detector.Detect(ctx, contract, block.Number()); result != nil {
		targets := make([]string, 0, len(result.Targets))
		for _, target := range result.Targets {
			targets = append(targets, target.Hex())
		}
		proxyInfo = fmt.Sprintf("%s -> %s", result.Type, strings.Join(targets, ", "))
	}

	verified := false
	if config.Conf.ScanAPI.APIServer != "" {
		verified, err = etherscan.IsVerified(contract.Hex())
		if err != nil {
			logrus.Errorf("check verified source for %s is err: %v", contract.Hex(), err)
		}
	}

	submitter.Submit(model.NotifyAction{
		Level: model.NotifyLevelInfo,
		Title: "new contract deployed",
		Text: fmt.Sprintf("chain: %s\ncontract: %s\ndeployer: %s\nblock: %d\nproxy: %s\nverified: %t",
			cs.chain, contract.Hex(), from.Hex(), block.NumberU64(), proxyInfo, verified),
	})
	submitter.Submit(model.QueueAction{
		Stream: config.Conf.Redis.ActionStream,
		Values: map[string]any{
			"chain":    cs.chain,
			"txhash":   tx.Hash().Hex(),
			"contract": contract.Hex(),
			"deployer": from.Hex(),
			"block":    block.NumberU64(),
			"proxy":    proxyInfo,
			"verified": verified,
		},
	})
	return nil
}
