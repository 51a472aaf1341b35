package model

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	ActionKindSubmitTx = "submit_tx"
	ActionKindNotify   = "notify"
	ActionKindQueue    = "queue"
)

// Action is a side effect decided by a strategy. Actions are value records
// and must not be mutated once submitted.
type Action interface {
	ActionKind() string
}

// SubmitTxAction carries a signed transaction for broadcast. When Private
// is set the executor routes RawTx through the private relay instead of the
// public mempool.
type SubmitTxAction struct {
	Transaction *types.Transaction
	RawTx       hexutil.Bytes
	Private     bool
}

func (a SubmitTxAction) ActionKind() string {
	return ActionKindSubmitTx
}

type NotifyLevel string

const (
	NotifyLevelInfo    NotifyLevel = "info"
	NotifyLevelWarning NotifyLevel = "warning"
)

type NotifyAction struct {
	Level NotifyLevel
	Title string
	Text  string
}

func (a NotifyAction) ActionKind() string {
	return ActionKindNotify
}

// QueueAction publishes arbitrary values to the configured redis stream for
// downstream consumers outside this process.
type QueueAction struct {
	Stream string
	Values map[string]any
}

func (a QueueAction) ActionKind() string {
	return ActionKindQueue
}
