package chart

import (
	"strings"

	"crypto-price-dashboard/internal/model"

	"github.com/markcheno/go-talib"
)

// 迷你曲线使用的字符梯度，从最低到最高
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// ChartData 存储从一次采样快照计算出的图表数据
type ChartData struct {
	Prices []float64 // 窗口内的价格序列 (插入顺序)
	Min    float64
	Max    float64
	SMA    float64 // 最新的简单移动平均值
	HasSMA bool    // 历史长度不足均线周期时为 false
	Spark  string  // 终端迷你曲线
}

// Calculator 负责把采样窗口转换为图表数据
type Calculator struct {
	smaPeriod  int
	sparkWidth int
}

// NewCalculator 初始化图表计算器
func NewCalculator(smaPeriod, sparkWidth int) *Calculator {
	if smaPeriod <= 0 {
		smaPeriod = 20
	}
	if sparkWidth <= 0 {
		sparkWidth = 48
	}
	return &Calculator{
		smaPeriod:  smaPeriod,
		sparkWidth: sparkWidth,
	}
}

// Build 基于采样快照计算图表数据，快照为空时返回零值
func (c *Calculator) Build(samples []model.Sample) *ChartData {
	if len(samples) == 0 {
		return &ChartData{}
	}

	prices := make([]float64, len(samples))
	for i, s := range samples {
		prices[i] = s.Price
	}

	data := &ChartData{
		Prices: prices,
		Min:    prices[0],
		Max:    prices[0],
	}
	for _, p := range prices {
		if p < data.Min {
			data.Min = p
		}
		if p > data.Max {
			data.Max = p
		}
	}

	// 历史长度不足均线周期时跳过计算
	if len(prices) >= c.smaPeriod {
		smaResult := talib.Sma(prices, c.smaPeriod)
		data.SMA = smaResult[len(smaResult)-1] // 取最新值
		data.HasSMA = true
	}

	data.Spark = c.sparkline(prices, data.Min, data.Max)
	return data
}

// sparkline 将价格序列映射为定宽字符曲线
func (c *Calculator) sparkline(prices []float64, min, max float64) string {
	// 超出宽度时只保留最近的一段
	if len(prices) > c.sparkWidth {
		prices = prices[len(prices)-c.sparkWidth:]
	}

	var sb strings.Builder
	span := max - min
	for _, p := range prices {
		idx := 0
		if span > 0 {
			idx = int((p - min) / span * float64(len(sparkLevels)-1))
		} else {
			// 所有价格相同时画一条中线
			idx = len(sparkLevels) / 2
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkLevels) {
			idx = len(sparkLevels) - 1
		}
		sb.WriteRune(sparkLevels[idx])
	}
	return sb.String()
}
