package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var Conf = config{}

type config struct {
	Chain      ChainConfig      `mapstructure:"chain" yaml:"chain"`
	Engine     EngineConfig     `mapstructure:"engine" yaml:"engine"`
	Postgresql PostgresqlConfig `mapstructure:"postgresql" yaml:"postgresql"`
	Redis      RedisConfig      `mapstructure:"redis" yaml:"redis"`
	Notifier   NotifierConfig   `mapstructure:"notifier" yaml:"notifier"`
	ScanAPI    ScanAPIConfig    `mapstructure:"scanapi" yaml:"scanapi"`
	BloXroute  BloXrouteConfig  `mapstructure:"bloxroute" yaml:"bloxroute"`
	HTTPServer HTTPServerConfig `mapstructure:"httpserver" yaml:"httpserver"`
	LogPath    string           `mapstructure:"log_path" yaml:"log_path"`
}

type ChainConfig struct {
	Name         string `mapstructure:"name" yaml:"name"`
	ID           int64  `mapstructure:"id" yaml:"id"`
	ProviderURL  string `mapstructure:"provider_url" yaml:"provider_url"`
	WebSocketURL string `mapstructure:"websocket_url" yaml:"websocket_url"`
	PrivateKey   string `mapstructure:"private_key" yaml:"private_key"`
}

type EngineConfig struct {
	EventQueueSize  int           `mapstructure:"event_queue_size" yaml:"event_queue_size"`
	ActionQueueSize int           `mapstructure:"action_queue_size" yaml:"action_queue_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type PostgresqlConfig struct {
	User         string `mapstructure:"user" yaml:"user"`
	Password     string `mapstructure:"password" yaml:"password"`
	Database     string `mapstructure:"database" yaml:"database"`
	Host         string `mapstructure:"host" yaml:"host"`
	Port         int    `mapstructure:"port" yaml:"port"`
	LogMode      bool   `mapstructure:"log-mode" yaml:"log-mode"`
	MaxIdleConns int    `mapstructure:"max-idle-conns" yaml:"max-idle-conns"`
	MaxOpenConns int    `mapstructure:"max-open-conns" yaml:"max-open-conns"`
}

type RedisConfig struct {
	Addr         string `mapstructure:"addr" yaml:"addr"`
	Password     string `mapstructure:"password" yaml:"password"`
	Database     int    `mapstructure:"database" yaml:"database"`
	MaxIdleConns int    `mapstructure:"max-idle-conns" yaml:"max-idle-conns"`
	ActionStream string `mapstructure:"action_stream" yaml:"action_stream"`
}

type NotifierConfig struct {
	LarkWebHook  string `mapstructure:"lark_webhook" yaml:"lark_webhook"`
	LarkSecret   string `mapstructure:"lark_secret" yaml:"lark_secret"`
	SlackWebHook string `mapstructure:"slack_webhook" yaml:"slack_webhook"`
}

type ScanAPIConfig struct {
	APIServer string `mapstructure:"api_server" yaml:"api_server"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
}

type BloXrouteConfig struct {
	RelayURL      string `mapstructure:"relay_url" yaml:"relay_url"`
	Authorization string `mapstructure:"authorization" yaml:"authorization"`
}

type HTTPServerConfig struct {
	Host           string `mapstructure:"host" yaml:"host"`
	Port           int    `mapstructure:"port" yaml:"port"`
	ClientMaxConns int    `mapstructure:"client_max_conns" yaml:"client_max_conns"`
}

func SetupConfig(configFile string) {
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	viper.SetDefault("engine.event_queue_size", 512)
	viper.SetDefault("engine.action_queue_size", 512)
	viper.SetDefault("engine.shutdown_timeout", 10*time.Second)
	viper.SetDefault("httpserver.client_max_conns", 50)

	if err := viper.ReadInConfig(); err != nil {
		logrus.Panicf("failed to read configuration file: %v", err)
	}
	if err := viper.Unmarshal(&Conf); err != nil {
		logrus.Panicf("failed to unmarshal configuration file %v", err)
	}

	logrus.Infof("read configuration file successfully")
}
