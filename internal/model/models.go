package model

import (
	"github.com/shopspring/decimal"
)

// Tick 代表行情流推送的一条最新价格数据
type Tick struct {
	Symbol       string          // 所属交易对，例如 "XRPUSDT"
	Price        decimal.Decimal // 最新成交价 (由行情源的十进制字符串解析而来)
	EventTime    int64           // 事件时间 (毫秒时间戳)
	ChangePct24h decimal.Decimal // 24 小时涨跌幅百分比
	HasChangePct bool            // 行情源是否携带涨跌幅字段
}

// Sample 从 Tick 派生当前的采样点，用于图表窗口
func (t Tick) Sample() Sample {
	return Sample{
		Timestamp: t.EventTime,
		Price:     t.Price.InexactFloat64(),
	}
}

// Sample 代表图表展示用的 (时间戳, 价格) 对
type Sample struct {
	Timestamp int64   // 毫秒时间戳
	Price     float64 // 价格
}
