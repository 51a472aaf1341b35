package proxydetect

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

type ProxyType string

const (
	ProxyTypeEip1167        ProxyType = "eip1167"
	ProxyTypeEip1967Direct  ProxyType = "eip1967_direct"
	ProxyTypeEip1967Beacon  ProxyType = "eip1967_beacon"
	ProxyTypeEip1822        ProxyType = "eip1822"
	ProxyTypeEip2535Diamond ProxyType = "eip2535_diamond"
	ProxyTypeEip897         ProxyType = "eip897"
	ProxyTypeOpenZeppelin   ProxyType = "open_zeppelin"
	ProxyTypeSafe           ProxyType = "safe"
	ProxyTypeComptroller    ProxyType = "comptroller"
	ProxyTypeBatchRelayer   ProxyType = "batch_relayer"
)

// Result describes the implementation behind a proxy contract. Targets
// holds a single address for every pattern except the diamond, which keeps
// its facets in facetAddresses() order.
type Result struct {
	Targets   []common.Address `json:"target"`
	Type      ProxyType        `json:"type"`
	Immutable bool             `json:"immutable"`
}

func (r *Result) Target() common.Address {
	return r.Targets[0]
}

// ChainReader is the narrow chain access detection needs; *ethclient.Client
// satisfies it.
type ChainReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}
