package client

import (
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/config"
)

var gethRPCClient *Instance

func initGethClient() any {
	client, err := rpc.Dial(config.Conf.Chain.WebSocketURL)
	if err != nil {
		logrus.Fatalf("failed to connect websocket url %s with rpc client, err is %v", config.Conf.Chain.WebSocketURL, err)
	}
	logrus.Infof("connect to provider with rpc client is successfully")
	return gethclient.New(client)
}

// GethClient exposes the geth specific namespaces, used for the pending
// transaction subscription.
func GethClient() *gethclient.Client {
	return gethRPCClient.Instance().(*gethclient.Client)
}

func init() {
	gethRPCClient = &Instance{initializer: initGethClient}
}
