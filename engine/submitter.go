package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/model"
)

// busSubmitter publishes submitted actions onto the engine's action bus.
type busSubmitter struct {
	bus *Bus[model.Action]
}

func (bs *busSubmitter) Submit(action model.Action) {
	bs.bus.Publish(action)
}

// PrintSubmitter logs every submitted action instead of dispatching it,
// which is handy when trying out a strategy without executors.
type PrintSubmitter struct{}

func (PrintSubmitter) Submit(action model.Action) {
	logrus.Infof("action %s: %+v", action.ActionKind(), action)
}
