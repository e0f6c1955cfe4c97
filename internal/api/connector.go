package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"crypto-price-dashboard/internal/model"
	"crypto-price-dashboard/internal/service"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 握手超时，连接尝试本身不设额外超时
const handshakeTimeout = 10 * time.Second

// BinanceTickerData 适配 Binance 24hrTicker 频道数据结构
type BinanceTickerData struct {
	EventType     string `json:"e"` // 事件类型，固定为 "24hrTicker"
	EventTime     int64  `json:"E"` // 事件时间 (毫秒时间戳)
	Symbol        string `json:"s"` // 交易对
	LastPrice     string `json:"c"` // 最新成交价 (十进制字符串)
	ChangePercent string `json:"P"` // 24 小时涨跌幅百分比 (十进制字符串)
}

// Connector 维护到单一行情端点的至多一条流式连接，
// 断线后按固定延迟调度一次重连，重复调度时只保留最近一个定时器。
type Connector struct {
	streamURL      string
	symbol         string
	reconnectDelay time.Duration
	tickerChannel  chan model.Tick
	sm             *ConnStateMachine

	mu             sync.Mutex
	wsConn         *websocket.Conn
	reconnectTimer *time.Timer
	stopped        bool
}

// NewConnector 根据行情配置构造连接器
func NewConnector(cfg *service.FeedConfig) *Connector {
	// 确保通道有足够的缓冲区来应对高频数据
	tickerChan := make(chan model.Tick, 2048)

	delay := cfg.ReconnectDelay
	if delay <= 0 {
		delay = 3 * time.Second
	}

	// 构造流地址: 例如 XRPUSDT -> wss://.../ws/xrpusdt@ticker
	streamURL := fmt.Sprintf("%s/%s@ticker", cfg.WSURL, strings.ToLower(cfg.Symbol))

	service.Logger.Info("Connector initialized",
		zap.String("Symbol", cfg.Symbol), zap.String("URL", streamURL))

	return &Connector{
		streamURL:      streamURL,
		symbol:         cfg.Symbol,
		reconnectDelay: delay,
		tickerChannel:  tickerChan,
		sm:             NewConnStateMachine(),
	}
}

// Start 建立 WebSocket 连接并进入读循环
// 拨号失败走与断线相同的路径，由 handleClose 调度下一次重连。
func (c *Connector) Start() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.sm.ToConnecting()

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(c.streamURL, nil)
	if err != nil {
		service.Logger.Error("Failed to connect to feed WS", zap.Error(err))
		c.sm.RecordError(err)
		c.handleClose()
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.wsConn = conn
	c.mu.Unlock()

	c.sm.ToOpen()
	service.Logger.Info("Feed WS connected", zap.String("Symbol", c.symbol))

	c.readLoop(conn)
}

// readLoop 持续读取 WS 消息并处理，读错误即视为连接终结
func (c *Connector) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.handleError(err)
			c.handleClose()
			return
		}
		c.handleMessage(message)
	}
}

// handleError 记录传输层错误，不在此处关闭或重试
func (c *Connector) handleError(err error) {
	c.sm.RecordError(err)

	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	if !stopped {
		service.Logger.Error("Error reading feed WS message", zap.Error(err))
	}
}

// handleMessage 解析推送，构建 Tick 并送入通道
// 解析失败只记录日志并跳过该条消息，不终结连接。
func (c *Connector) handleMessage(raw []byte) {
	var evt BinanceTickerData
	if err := json.Unmarshal(raw, &evt); err != nil {
		service.Logger.Warn("Ticker payload unmarshal error, skipping message", zap.Error(err))
		return
	}

	if evt.EventType != "24hrTicker" {
		// 忽略订阅响应等非行情消息
		return
	}

	price, err := decimal.NewFromString(evt.LastPrice)
	if err != nil {
		service.Logger.Warn("Invalid price in ticker payload, skipping message",
			zap.String("Price", evt.LastPrice), zap.Error(err))
		return
	}

	tick := model.Tick{
		Symbol:    evt.Symbol,
		Price:     price,
		EventTime: evt.EventTime,
	}

	// 涨跌幅字段是可选的，缺失或非法时不携带
	if evt.ChangePercent != "" {
		if pct, err := decimal.NewFromString(evt.ChangePercent); err == nil {
			tick.ChangePct24h = pct
			tick.HasChangePct = true
		}
	}

	// 使用 select/default 防止阻塞 Connector
	select {
	case c.tickerChannel <- tick:
	default:
		service.Logger.Warn("Ticker channel full! Dropping tick for", zap.String("Symbol", c.symbol))
	}
}

// handleClose 关闭当前连接并调度重连
func (c *Connector) handleClose() {
	c.mu.Lock()
	if c.wsConn != nil {
		c.wsConn.Close()
		c.wsConn = nil
	}
	stopped := c.stopped
	c.mu.Unlock()

	c.sm.ToClosed()

	if stopped {
		return
	}
	c.scheduleReconnect()
}

// scheduleReconnect 按固定延迟调度一次重连
// 若已有待触发的定时器，先取消旧的，只保留最近一次调度，
// 避免快速开关导致并发的重复连接。延迟固定，无退避增长。
func (c *Connector) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
	}
	c.reconnectTimer = time.AfterFunc(c.reconnectDelay, c.Start)

	service.Logger.Info("Feed reconnect scheduled",
		zap.Duration("Delay", c.reconnectDelay))
}

// Stop 幂等地释放连接和待触发的重连定时器
// 从未建立过连接时调用也是安全的。
func (c *Connector) Stop() {
	c.mu.Lock()
	c.stopped = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	conn := c.wsConn
	c.wsConn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.sm.ToClosed()
}

// GetTickerChannel 供数据层消费 Tick 流
func (c *Connector) GetTickerChannel() chan model.Tick {
	return c.tickerChannel
}

// States 供展示层查询连接状态机
func (c *Connector) States() *ConnStateMachine {
	return c.sm
}
