package client

import (
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/config"
)

var evmClient *Instance

func initEvmClient() any {
	client, err := ethclient.Dial(config.Conf.Chain.ProviderURL)
	if err != nil {
		logrus.Fatalf("failed to connect provider url %s, err is %v", config.Conf.Chain.ProviderURL, err)
	}
	logrus.Infof("connect to provider is successfully")
	return client
}

func EvmClient() *ethclient.Client {
	return evmClient.Instance().(*ethclient.Client)
}

func init() {
	evmClient = &Instance{initializer: initEvmClient}
}

// NewWebSocketClient dials the websocket endpoint, which is required by the
// subscription based collectors.
func NewWebSocketClient() *ethclient.Client {
	client, err := ethclient.Dial(config.Conf.Chain.WebSocketURL)
	if err != nil {
		logrus.Fatalf("failed to connect websocket url %s, err is %v", config.Conf.Chain.WebSocketURL, err)
	}
	logrus.Infof("connect to websocket provider is successfully")
	return client
}
