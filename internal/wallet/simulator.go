package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"crypto-price-dashboard/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Simulator 实现模拟的钱包连接和支付流程
// 地址是伪造的，延迟是人工的，不向任何链上账本提交交易。
type Simulator struct {
	cfg    *service.WalletConfig
	logger *zap.SugaredLogger

	mu sync.RWMutex // 保护钱包状态

	connected bool
	address   string          // 伪造的钱包地址
	balance   decimal.Decimal // 模拟余额
	history   []*PaymentRecord

	// 状态提示信息，展示一段时间后自动清除
	// 新提示会取消上一个清除定时器，只保留最近一次调度。
	statusMsg   string
	statusTimer *time.Timer
}

// NewSimulator 构造函数
func NewSimulator(cfg *service.WalletConfig, logger *zap.SugaredLogger) *Simulator {
	return &Simulator{
		cfg:     cfg,
		logger:  logger,
		balance: decimal.NewFromFloat(cfg.InitialBalance),
	}
}

// Connect 模拟连接钱包：人工延迟后伪造一个地址
// 已连接时幂等返回当前地址。
func (s *Simulator) Connect(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.connected {
		addr := s.address
		s.mu.RUnlock()
		return addr, nil
	}
	s.mu.RUnlock()

	if err := s.simulateDelay(ctx, s.cfg.ConnectDelay); err != nil {
		return "", err
	}

	addr := fabricateAddress()

	s.mu.Lock()
	s.connected = true
	s.address = addr
	s.setStatusLocked("Wallet connected: " + service.ShortenAddress(addr))
	s.mu.Unlock()

	s.logger.Infof("Sim WALLET CONNECTED: %s. Balance: %s", addr, s.balance.String())
	return addr, nil
}

// SubmitPayment 模拟一次支付
// 校验失败时设置提示信息并拒绝，不会中断流程；
// 校验通过后经过人工延迟，生成流水记录并扣减模拟余额。
func (s *Simulator) SubmitPayment(ctx context.Context, req PaymentRequest) (*PaymentRecord, error) {
	amount, err := s.validate(req)
	if err != nil {
		s.mu.Lock()
		s.setStatusLocked(rejectionMessage(err))
		s.mu.Unlock()

		s.logger.Infof("Sim PAYMENT REJECTED: %v", err)
		return nil, err
	}

	if err := s.simulateDelay(ctx, s.cfg.PaymentDelay); err != nil {
		return nil, err
	}

	s.mu.Lock()
	record := &PaymentRecord{
		ID:           uuid.NewString(),
		FromAddress:  s.address,
		ToAddress:    req.ToAddress,
		Amount:       amount,
		SubmitTime:   time.Now(),
		CompleteTime: time.Now(),
		Status:       StatusConfirmed,
	}
	s.balance = s.balance.Sub(amount)
	s.history = append(s.history, record)
	s.setStatusLocked("Payment sent: " + service.FormatAmount(amount))
	balance := s.balance
	s.mu.Unlock()

	s.logger.Infof("Sim PAYMENT CONFIRMED: %s -> %s. Amount: %s. New Balance: %s",
		record.FromAddress, record.ToAddress, amount.String(), balance.String())

	return record, nil
}

// validate 检查表单输入，返回解析后的金额
func (s *Simulator) validate(req PaymentRequest) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return decimal.Zero, ErrNotConnected
	}
	if req.Amount == "" {
		return decimal.Zero, ErrMissingAmount
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	if req.ToAddress == "" {
		return decimal.Zero, ErrMissingAddress
	}

	if amount.GreaterThan(s.balance) {
		return decimal.Zero, ErrInsufficientBalance
	}

	return amount, nil
}

// Disconnect 幂等释放钱包状态，并取消待触发的提示清除定时器
func (s *Simulator) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statusTimer != nil {
		s.statusTimer.Stop()
		s.statusTimer = nil
	}
	s.statusMsg = ""

	if !s.connected {
		return
	}
	s.connected = false
	s.address = ""
	s.logger.Info("Sim WALLET DISCONNECTED")
}

// StatusMessage 返回当前的提示信息，过期后为空串
func (s *Simulator) StatusMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusMsg
}

// IsConnected 返回钱包连接状态
func (s *Simulator) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Address 返回伪造的钱包地址，未连接时为空串
func (s *Simulator) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

// Balance 返回当前模拟余额
func (s *Simulator) Balance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// History 返回支付记录的副本，防止外部修改
func (s *Simulator) History() []*PaymentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*PaymentRecord, len(s.history))
	copy(records, s.history)
	return records
}

// setStatusLocked 设置提示信息并调度自动清除 (调用方持有 s.mu)
func (s *Simulator) setStatusLocked(msg string) {
	s.statusMsg = msg

	if s.statusTimer != nil {
		s.statusTimer.Stop()
	}

	ttl := s.cfg.StatusTTL
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	s.statusTimer = time.AfterFunc(ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.statusMsg == msg {
			s.statusMsg = ""
		}
	})
}

// simulateDelay 人工延迟，ctx 取消时提前返回
func (s *Simulator) simulateDelay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// rejectionMessage 将校验错误转成表单提示文案
func rejectionMessage(err error) string {
	switch err {
	case ErrNotConnected:
		return "Please connect a wallet first"
	case ErrMissingAmount:
		return "Please enter an amount"
	case ErrInvalidAmount:
		return "Amount must be a positive number"
	case ErrMissingAddress:
		return "Please enter a recipient address"
	case ErrInsufficientBalance:
		return "Insufficient balance"
	default:
		return "Payment rejected"
	}
}

// fabricateAddress 伪造一个 0x 开头的 40 位十六进制地址
func fabricateAddress() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand 不可用时退化为固定占位地址
		return "0x0000000000000000000000000000000000000000"
	}
	return "0x" + hex.EncodeToString(buf)
}
