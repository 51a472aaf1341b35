package client

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/config"
)

var httpClient *Instance

func initHTTPClient() any {
	transport := http.DefaultTransport.(*http.Transport)
	transport.MaxConnsPerHost = config.Conf.HTTPServer.ClientMaxConns
	logrus.Infof("init http client")
	return &http.Client{
		Transport: transport,
	}
}

func HTTPClient() *http.Client {
	return httpClient.Instance().(*http.Client)
}

func init() {
	httpClient = &Instance{initializer: initHTTPClient}
}
