package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/exvulsec/harpoon/client"
	"github.com/exvulsec/harpoon/collector"
	"github.com/exvulsec/harpoon/config"
	"github.com/exvulsec/harpoon/engine"
	"github.com/exvulsec/harpoon/executor"
	"github.com/exvulsec/harpoon/log"
	"github.com/exvulsec/harpoon/notifier"
	"github.com/exvulsec/harpoon/server"
	"github.com/exvulsec/harpoon/service"
	"github.com/exvulsec/harpoon/strategy"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "watch the chain and run the pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		configFile, _ := cmd.Flags().GetString("config")
		config.SetupConfig(configFile)
		log.InitLog(config.Conf.LogPath)

		mempool, _ := cmd.Flags().GetBool("mempool")
		tick, _ := cmd.Flags().GetDuration("tick")
		threshold, _ := cmd.Flags().GetInt64("transfer_threshold")
		runWatch(mempool, tick, threshold)
	},
}

func runWatch(mempool bool, tick time.Duration, threshold int64) {
	e := engine.NewFromConfig()
	wsClient := client.NewWebSocketClient()
	chain := config.Conf.Chain.Name

	mustAdd(e.AddCollector(collector.NewBlockCollector(wsClient)))
	mustAdd(e.AddCollector(collector.NewFullBlockCollector(wsClient)))
	mustAdd(e.AddCollector(collector.NewIntervalCollector(tick)))
	if mempool {
		mustAdd(e.AddCollector(collector.NewMempoolCollector(client.GethClient(), client.EvmClient())))
	}

	mustAdd(e.AddStrategy(strategy.NewContractStrategy(chain, client.EvmClient())))
	mustAdd(e.AddStrategy(strategy.NewTransferStrategy(chain, decimal.NewFromInt(threshold))))

	notifiers := []notifier.Notifier{}
	if config.Conf.Notifier.LarkWebHook != "" {
		notifiers = append(notifiers, notifier.NewLarkNotifier(config.Conf.Notifier.LarkWebHook))
	}
	if config.Conf.Notifier.SlackWebHook != "" {
		notifiers = append(notifiers, notifier.NewSlackNotifier(config.Conf.Notifier.SlackWebHook))
	}
	if len(notifiers) > 0 {
		mustAdd(e.AddExecutor(executor.NewNotificationExecutor(notifiers...)))
	} else {
		mustAdd(e.AddExecutor(executor.NewDummyExecutor()))
	}
	if config.Conf.Redis.Addr != "" {
		mustAdd(e.AddExecutor(executor.NewQueueExecutor()))
	}
	if config.Conf.Postgresql.Host != "" {
		mustAdd(e.AddExecutor(executor.NewRecordExecutor(chain)))
	}
	var relay *service.BloXrouteClient
	if config.Conf.BloXroute.RelayURL != "" {
		relay = service.NewBloXrouteClient(config.Conf.BloXroute.RelayURL, config.Conf.BloXroute.Authorization)
	}
	mustAdd(e.AddExecutor(executor.NewTransactionExecutor(client.EvmClient(), relay)))

	if err := e.Run(context.Background()); err != nil {
		logrus.Panicf("run the engine is err: %v", err)
	}

	httpServer := server.NewHTTPServer(e)
	httpServer.Run()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := e.Shutdown(); err != nil {
		logrus.Errorf("shutdown the engine is err: %v", err)
	}
	httpServer.Shutdown()
}

func mustAdd(err error) {
	if err != nil {
		logrus.Panicf("register component is err: %v", err)
	}
}

func watchCmdInit() {
	watchCmd.Flags().String("config", "", "set config file path")
	watchCmd.Flags().Bool("mempool", false, "watch pending transactions as well")
	watchCmd.Flags().Duration("tick", time.Minute, "interval collector tick")
	watchCmd.Flags().Int64("transfer_threshold", 1000, "large transfer threshold in ether")
}

func init() {
	watchCmdInit()
}
