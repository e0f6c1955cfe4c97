package main

import (
	"os"
	"os/signal"
	"syscall"

	"crypto-price-dashboard/internal/api"
	"crypto-price-dashboard/internal/dashboard"
	"crypto-price-dashboard/internal/data"
	"crypto-price-dashboard/internal/service"
	"crypto-price-dashboard/internal/wallet"
	"crypto-price-dashboard/pkg/chart"
)

func main() {
	service.InitLogger()
	defer service.Logger.Sync()

	cfg := service.LoadConfig("config")

	// 1. 初始化 Connector (连接器只负责连接行情流并产出 Tick)
	connector := api.NewConnector(&cfg.Feed)

	// 2. 数据层：消费 Tick，维护当前价格和一小时采样窗口
	engine := data.NewEngine(connector.GetTickerChannel(), cfg.Feed.WindowSpan)

	// 3. 模拟钱包与支付流程
	walletSim := wallet.NewSimulator(&cfg.Wallet, service.Logger.Sugar())

	// 4. 终端面板
	calc := chart.NewCalculator(cfg.Display.SMAPeriod, cfg.Display.SparkWidth)
	dash := dashboard.New(engine, connector.States(), walletSim, calc,
		cfg.Display.RefreshInterval, os.Stdout)

	go connector.Start()
	go engine.Start()
	go dash.Run()

	// Ctrl+C 时释放连接、重连定时器和钱包状态
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		service.Logger.Info("Received shutdown signal, tearing down...")
		dash.Stop()
		connector.Stop()
		walletSim.Disconnect()
		os.Exit(0)
	}()

	// 主循环：读取支付表单命令 (connect / pay / history / balance / quit)
	dash.ReadCommands(os.Stdin)

	dash.Stop()
	connector.Stop()
	walletSim.Disconnect()
}
