package wallet

import (
	"context"
	"regexp"
	"testing"
	"time"

	"crypto-price-dashboard/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	return NewSimulator(&service.WalletConfig{
		ConnectDelay:   0,
		PaymentDelay:   0,
		StatusTTL:      time.Minute,
		InitialBalance: 100,
	}, zap.NewNop().Sugar())
}

func TestSimulator_ConnectFabricatesAddress(t *testing.T) {
	s := newTestSimulator(t)

	addr, err := s.Connect(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, addressPattern, addr)
	assert.True(t, s.IsConnected())
	assert.Equal(t, addr, s.Address())

	// 重复连接幂等，地址不变
	again, err := s.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, addr, again)
}

func TestSimulator_RejectsWhenNotConnected(t *testing.T) {
	s := newTestSimulator(t)

	_, err := s.SubmitPayment(context.Background(), PaymentRequest{Amount: "1", ToAddress: "0xabc"})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, "Please connect a wallet first", s.StatusMessage())
}

func TestSimulator_InputValidation(t *testing.T) {
	s := newTestSimulator(t)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	cases := []struct {
		name    string
		req     PaymentRequest
		wantErr error
		wantMsg string
	}{
		{"missing amount", PaymentRequest{ToAddress: "0xabc"}, ErrMissingAmount, "Please enter an amount"},
		{"non numeric amount", PaymentRequest{Amount: "abc", ToAddress: "0xabc"}, ErrInvalidAmount, "Amount must be a positive number"},
		{"zero amount", PaymentRequest{Amount: "0", ToAddress: "0xabc"}, ErrInvalidAmount, "Amount must be a positive number"},
		{"negative amount", PaymentRequest{Amount: "-5", ToAddress: "0xabc"}, ErrInvalidAmount, "Amount must be a positive number"},
		{"missing address", PaymentRequest{Amount: "1"}, ErrMissingAddress, "Please enter a recipient address"},
		{"over balance", PaymentRequest{Amount: "100.01", ToAddress: "0xabc"}, ErrInsufficientBalance, "Insufficient balance"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record, err := s.SubmitPayment(context.Background(), tc.req)
			assert.Nil(t, record)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantMsg, s.StatusMessage())
		})
	}

	// 校验失败不产生流水，也不动余额
	assert.Empty(t, s.History())
	assert.True(t, s.Balance().Equal(decimal.NewFromInt(100)))
}

func TestSimulator_SubmitPayment(t *testing.T) {
	s := newTestSimulator(t)
	addr, err := s.Connect(context.Background())
	require.NoError(t, err)

	record, err := s.SubmitPayment(context.Background(), PaymentRequest{
		Amount:    "12.5",
		ToAddress: "0xdeadbeef",
	})
	require.NoError(t, err)
	require.NotNil(t, record)

	_, err = uuid.Parse(record.ID)
	assert.NoError(t, err)
	assert.Equal(t, addr, record.FromAddress)
	assert.Equal(t, "0xdeadbeef", record.ToAddress)
	assert.Equal(t, StatusConfirmed, record.Status)
	assert.True(t, record.Amount.Equal(decimal.RequireFromString("12.5")))

	assert.True(t, s.Balance().Equal(decimal.RequireFromString("87.5")))
	require.Len(t, s.History(), 1)
	assert.Contains(t, s.StatusMessage(), "Payment sent")
}

func TestSimulator_HistoryReturnsCopy(t *testing.T) {
	s := newTestSimulator(t)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	_, err = s.SubmitPayment(context.Background(), PaymentRequest{Amount: "1", ToAddress: "0xabc"})
	require.NoError(t, err)

	records := s.History()
	records[0] = nil

	require.Len(t, s.History(), 1)
	assert.NotNil(t, s.History()[0])
}

func TestSimulator_StatusMessageExpires(t *testing.T) {
	s := NewSimulator(&service.WalletConfig{
		StatusTTL:      30 * time.Millisecond,
		InitialBalance: 100,
	}, zap.NewNop().Sugar())

	_, err := s.SubmitPayment(context.Background(), PaymentRequest{})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NotEmpty(t, s.StatusMessage())

	assert.Eventually(t, func() bool {
		return s.StatusMessage() == ""
	}, time.Second, 5*time.Millisecond)
}

func TestSimulator_DisconnectIdempotent(t *testing.T) {
	s := newTestSimulator(t)

	// 从未连接时调用也安全
	require.NotPanics(t, func() {
		s.Disconnect()
		s.Disconnect()
	})

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	s.Disconnect()
	s.Disconnect()
	assert.False(t, s.IsConnected())
	assert.Empty(t, s.Address())
	assert.Empty(t, s.StatusMessage())
}

func TestSimulator_ConnectCancelled(t *testing.T) {
	s := NewSimulator(&service.WalletConfig{
		ConnectDelay:   time.Hour,
		InitialBalance: 100,
	}, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Connect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.IsConnected())
}
