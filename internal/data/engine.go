package data

import (
	"sync"
	"time"

	"crypto-price-dashboard/internal/model"
	"crypto-price-dashboard/internal/service"
)

// Snapshot 是某一时刻的展示数据：当前 Tick 和窗口采样的副本
type Snapshot struct {
	Current model.Tick
	HasTick bool
	Samples []model.Sample
}

// Engine 消费 Tick 流，维护当前 Tick 和时间窗口内的采样序列
// 当前 Tick 被每条新推送覆盖，窗口在每次插入后按最新采样的时间戳淘汰过期数据。
type Engine struct {
	tickerChan <-chan model.Tick

	mu      sync.RWMutex
	current model.Tick
	hasTick bool
	window  *model.SampleWindow
}

// NewEngine 创建并初始化 Engine
func NewEngine(tickerChan <-chan model.Tick, windowSpan time.Duration) *Engine {
	return &Engine{
		tickerChan: tickerChan,
		window:     model.NewSampleWindow(windowSpan),
	}
}

// Start 启动数据处理循环，通道关闭时退出
func (e *Engine) Start() {
	service.Logger.Info("Dashboard engine started, monitoring ticker stream...")

	for tick := range e.tickerChan {
		e.apply(tick)
	}

	service.Logger.Info("Dashboard engine stopped")
}

// apply 用一条新 Tick 更新当前状态和采样窗口
func (e *Engine) apply(tick model.Tick) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = tick
	e.hasTick = true
	e.window.Append(tick.Sample())
}

// Snapshot 返回读一致的展示数据副本
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Snapshot{
		Current: e.current,
		HasTick: e.hasTick,
		Samples: e.window.Samples(),
	}
}

// WindowLen 返回当前窗口内的采样数量
func (e *Engine) WindowLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.window.Len()
}
