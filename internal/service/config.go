// internal/service/config.go
package service

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Feed    FeedConfig    `mapstructure:"Feed"`
	Wallet  WalletConfig  `mapstructure:"Wallet"`
	Display DisplayConfig `mapstructure:"Display"`
}

// FeedConfig 定义了行情源的连接信息
type FeedConfig struct {
	WSURL          string        // 行情 WebSocket 基础地址
	Symbol         string        // 订阅的交易对，例如 XRPUSDT
	ReconnectDelay time.Duration // 断线后的固定重连延迟
	WindowSpan     time.Duration // 图表采样窗口的时间跨度
}

// WalletConfig 定义了模拟钱包和支付流程的参数
type WalletConfig struct {
	ConnectDelay   time.Duration // 模拟连接钱包的人工延迟
	PaymentDelay   time.Duration // 模拟支付确认的人工延迟
	StatusTTL      time.Duration // 状态提示信息的展示时长
	InitialBalance float64       // 初始模拟余额
}

// DisplayConfig 定义了终端展示参数
type DisplayConfig struct {
	RefreshInterval time.Duration // 面板刷新周期
	SMAPeriod       int           // 图表均线周期
	SparkWidth      int           // 迷你曲线的字符宽度
}

// GlobalConfig 存储加载后的全局配置
var GlobalConfig Config

// LoadConfig 读取并解析配置文件，文件缺失时回退到内置默认值
func LoadConfig(configPath string) *Config {
	// 设置配置文件的名称、类型和路径
	viper.SetConfigName("config") // 文件名是 config
	viper.SetConfigType("yaml")   // 文件类型是 yaml
	viper.AddConfigPath(configPath)

	setDefaults()

	// 查找并读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Config file not found, using defaults: %s", err)
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	// 将配置绑定到结构体
	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode config into struct: %s", err)
	}

	return &GlobalConfig
}

func setDefaults() {
	viper.SetDefault("Feed.WSURL", "wss://stream.binance.com:9443/ws")
	viper.SetDefault("Feed.Symbol", "XRPUSDT")
	viper.SetDefault("Feed.ReconnectDelay", "3s")
	viper.SetDefault("Feed.WindowSpan", "1h")

	viper.SetDefault("Wallet.ConnectDelay", "1500ms")
	viper.SetDefault("Wallet.PaymentDelay", "2s")
	viper.SetDefault("Wallet.StatusTTL", "3s")
	viper.SetDefault("Wallet.InitialBalance", 1000.0)

	viper.SetDefault("Display.RefreshInterval", "1s")
	viper.SetDefault("Display.SMAPeriod", 20)
	viper.SetDefault("Display.SparkWidth", 48)
}
