package notifier

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

type slackNotifier struct {
	webHookURL string
}

func NewSlackNotifier(webHookURL string) Notifier {
	return &slackNotifier{webHookURL: webHookURL}
}

func (sn *slackNotifier) Name() string {
	return SlackNotifierName
}

func (sn *slackNotifier) Notify(data any) {
	msg, ok := data.(Message)
	if !ok {
		logrus.Errorf("slack notifier got an unexpected payload %+v", data)
		return
	}
	webhookMsg := slack.WebhookMessage{
		Text: fmt.Sprintf("*%s*\n%s", msg.Title, msg.Text),
	}
	if err := slack.PostWebhook(sn.webHookURL, &webhookMsg); err != nil {
		logrus.Errorf("send message to slack is err: %v", err)
	}
}
