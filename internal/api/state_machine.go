package api

import (
	"sync"

	"crypto-price-dashboard/internal/service"

	"go.uber.org/zap"
)

// 连接状态常量
type ConnState string

const (
	// 正在建立连接
	StateConnecting ConnState = "CONNECTING"

	// 连接已建立，行情正常推送
	StateOpen ConnState = "OPEN"

	// 连接已断开 (初始状态，以及每次断线后)
	StateClosed ConnState = "CLOSED"
)

// ConnStateMachine 结构体
// 连接状态只由传输层的生命周期事件驱动：拨号前进入 CONNECTING，
// 握手成功进入 OPEN，连接断开或主动关闭进入 CLOSED。
type ConnStateMachine struct {
	mu      sync.RWMutex
	current ConnState
	lastErr error
}

// NewConnStateMachine 初始化状态机，初始为 CLOSED
func NewConnStateMachine() *ConnStateMachine {
	return &ConnStateMachine{
		current: StateClosed,
	}
}

// ToConnecting 进入连接中状态
func (sm *ConnStateMachine) ToConnecting() {
	sm.transition(StateConnecting)
}

// ToOpen 进入已连接状态，同时清除上一次的错误
func (sm *ConnStateMachine) ToOpen() {
	sm.mu.Lock()
	sm.lastErr = nil
	sm.mu.Unlock()
	sm.transition(StateOpen)
}

// ToClosed 进入断开状态
func (sm *ConnStateMachine) ToClosed() {
	sm.transition(StateClosed)
}

// RecordError 记录传输层错误
// 错误本身不驱动状态切换，关闭信号仍由传输层的 close 事件触发。
func (sm *ConnStateMachine) RecordError(err error) {
	sm.mu.Lock()
	sm.lastErr = err
	sm.mu.Unlock()
}

// transition 执行一次状态切换并记录日志
func (sm *ConnStateMachine) transition(to ConnState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if to == sm.current {
		return
	}

	service.Logger.Info("Feed state transition",
		zap.String("From", string(sm.current)),
		zap.String("To", string(to)))
	sm.current = to
}

// Current 供展示层查询当前连接状态
func (sm *ConnStateMachine) Current() ConnState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// LastError 返回最近一次记录的传输层错误
func (sm *ConnStateMachine) LastError() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastErr
}
