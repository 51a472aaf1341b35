package model

import (
	"time"

	"github.com/ethereum/go-ethereum/core/types"
)

const (
	EventKindNewBlock  = "new_block"
	EventKindFullBlock = "full_block"
	EventKindBlockLogs = "block_logs"
	EventKindPendingTx = "pending_tx"
	EventKindTick      = "tick"
)

// Event is anything observed by a collector. The engine only routes events
// by their kind tag; payload inspection belongs to strategies.
type Event interface {
	EventKind() string
}

type NewBlockEvent struct {
	Header *types.Header
}

func (e NewBlockEvent) EventKind() string {
	return EventKindNewBlock
}

type FullBlockEvent struct {
	Block *types.Block
}

func (e FullBlockEvent) EventKind() string {
	return EventKindFullBlock
}

type BlockLogsEvent struct {
	Header *types.Header
	Logs   []types.Log
}

func (e BlockLogsEvent) EventKind() string {
	return EventKindBlockLogs
}

type PendingTxEvent struct {
	Transaction *types.Transaction
}

func (e PendingTxEvent) EventKind() string {
	return EventKindPendingTx
}

type TickEvent struct {
	Time time.Time
}

func (e TickEvent) EventKind() string {
	return EventKindTick
}
