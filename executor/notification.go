package executor

import (
	"context"

	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/model"
	"github.com/exvulsec/harpoon/notifier"
)

type notificationExecutor struct {
	notifiers []notifier.Notifier
}

// NewNotificationExecutor fans notify actions out to every configured
// notifier channel.
func NewNotificationExecutor(notifiers ...notifier.Notifier) engine.Executor {
	return &notificationExecutor{notifiers: notifiers}
}

func (ne *notificationExecutor) Name() string {
	return "NotificationExecutor"
}

func (ne *notificationExecutor) Execute(ctx context.Context, action model.Action) error {
	notify, ok := action.(model.NotifyAction)
	if !ok {
		return nil
	}
	msg := notifier.Message{
		Title: notify.Title,
		Text:  notify.Text,
		Level: string(notify.Level),
	}
	for _, n := range ne.notifiers {
		n.Notify(msg)
	}
	return nil
}
