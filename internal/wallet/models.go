package wallet

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus 定义了模拟支付的最终状态
type PaymentStatus string

const (
	StatusConfirmed PaymentStatus = "CONFIRMED" // 模拟确认成功
	StatusRejected  PaymentStatus = "REJECTED"  // 校验未通过，被拒绝
)

// 输入校验错误
// 这些错误只会导致流程被拒绝并展示提示信息，绝不致命。
var (
	ErrNotConnected        = errors.New("wallet not connected")
	ErrMissingAmount       = errors.New("amount is required")
	ErrInvalidAmount       = errors.New("amount must be a positive number")
	ErrMissingAddress      = errors.New("recipient address is required")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// PaymentRequest 是支付表单提交的原始输入
type PaymentRequest struct {
	Amount    string // 原始金额输入 (十进制字符串，允许为空以便校验)
	ToAddress string // 收款地址
}

// PaymentRecord 记录一次完成的模拟支付
type PaymentRecord struct {
	ID           string          // 支付流水号 (uuid)
	FromAddress  string          // 付款地址 (模拟钱包地址)
	ToAddress    string          // 收款地址
	Amount       decimal.Decimal // 支付金额
	SubmitTime   time.Time       // 提交时间
	CompleteTime time.Time       // 模拟确认时间
	Status       PaymentStatus
}

func (r *PaymentRecord) String() string {
	return fmt.Sprintf("PAYMENT [%s] %s -> %s | Amount: %s | Status: %s",
		r.ID, r.FromAddress, r.ToAddress, r.Amount.String(), r.Status)
}
