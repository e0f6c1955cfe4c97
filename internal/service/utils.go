package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ShortenAddress 缩短地址用于展示，例如 0x12ab...cd34
func ShortenAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FormatChangePct 将 24h 涨跌幅格式化为带符号的百分比字符串，例如 "+2.15%"
func FormatChangePct(pct decimal.Decimal) string {
	s := pct.StringFixed(2)
	if pct.Sign() >= 0 {
		s = "+" + s
	}
	return s + "%"
}

// FormatEventTime 将毫秒时间戳格式化为本地时刻，用于面板展示
func FormatEventTime(ms int64) string {
	return time.UnixMilli(ms).Format("15:04:05")
}

// FormatAmount 统一金额展示格式 (保留 4 位小数)
func FormatAmount(amount decimal.Decimal) string {
	return fmt.Sprintf("%s USDT", amount.StringFixed(4))
}
