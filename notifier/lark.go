package notifier

import (
	"fmt"

	"github.com/go-lark/lark"
	"github.com/go-lark/lark/card"
	"github.com/sirupsen/logrus"
)

type larkNotifier struct {
	larkBot *lark.Bot
}

func NewLarkNotifier(webHookURL string) Notifier {
	return &larkNotifier{larkBot: lark.NewNotificationBot(webHookURL)}
}

func (ln *larkNotifier) Name() string {
	return LarkNotifierName
}

func (ln *larkNotifier) Notify(data any) {
	msg, ok := data.(Message)
	if !ok {
		logrus.Errorf("lark notifier got an unexpected payload %+v", data)
		return
	}
	outMsg := ln.composeCardOutComingMsg(msg)
	if _, err := ln.larkBot.PostNotificationV2(outMsg); err != nil {
		logrus.Errorf("send message to lark is err: %v", err)
		return
	}
}

func (ln *larkNotifier) composeCardOutComingMsg(msg Message) lark.OutcomingMessage {
	buffer := lark.NewMsgBuffer(lark.MsgInteractive)
	cardString := ln.composeCard(msg).String()
	return buffer.Card(cardString).Build()
}

func (ln *larkNotifier) composeCard(msg Message) *card.Block {
	builder := lark.NewCardBuilder()
	elements := []card.Element{
		builder.Div().Text(builder.Text(msg.Text).LarkMd()),
		builder.Hr(),
		builder.Div().Text(builder.Text(fmt.Sprintf("**level:** %s", msg.Level)).LarkMd()),
	}
	block := builder.Card(elements...).Title(msg.Title)
	if msg.Level == "warning" {
		return block.Red()
	}
	return block
}
