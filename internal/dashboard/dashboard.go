package dashboard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"crypto-price-dashboard/internal/api"
	"crypto-price-dashboard/internal/data"
	"crypto-price-dashboard/internal/service"
	"crypto-price-dashboard/internal/wallet"

	"crypto-price-dashboard/pkg/chart"
)

// Dashboard 负责终端面板的周期渲染和支付表单命令的处理
// 纯展示层：所有数据都来自 Engine 快照、连接状态机和钱包模拟器。
type Dashboard struct {
	engine  *data.Engine
	states  *api.ConnStateMachine
	wallet  *wallet.Simulator
	calc    *chart.Calculator
	refresh time.Duration
	out     io.Writer

	done     chan struct{}
	stopOnce sync.Once
}

// New 构造终端面板
func New(
	engine *data.Engine,
	states *api.ConnStateMachine,
	walletSim *wallet.Simulator,
	calc *chart.Calculator,
	refresh time.Duration,
	out io.Writer,
) *Dashboard {
	if refresh <= 0 {
		refresh = time.Second
	}
	return &Dashboard{
		engine:  engine,
		states:  states,
		wallet:  walletSim,
		calc:    calc,
		refresh: refresh,
		out:     out,
		done:    make(chan struct{}),
	}
}

// Run 周期渲染面板，直到 Stop 被调用
func (d *Dashboard) Run() {
	ticker := time.NewTicker(d.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.render()
		}
	}
}

// Stop 幂等停止渲染循环
func (d *Dashboard) Stop() {
	d.stopOnce.Do(func() {
		close(d.done)
	})
}

// render 输出一帧面板
func (d *Dashboard) render() {
	snap := d.engine.Snapshot()

	if !snap.HasTick {
		fmt.Fprintf(d.out, "[%s] waiting for first tick...%s\n",
			string(d.states.Current()), d.walletLine())
		return
	}

	line := fmt.Sprintf("%s %s", snap.Current.Symbol, snap.Current.Price.String())
	if snap.Current.HasChangePct {
		line += " (" + service.FormatChangePct(snap.Current.ChangePct24h) + ")"
	}
	line += " @ " + service.FormatEventTime(snap.Current.EventTime)

	// 连接断开时给出非阻塞的提示标记
	if d.states.Current() != api.StateOpen {
		line += " [DISCONNECTED]"
	}

	cd := d.calc.Build(snap.Samples)
	fmt.Fprintf(d.out, "%s\n%s  (%d samples)", line, cd.Spark, len(snap.Samples))
	if cd.HasSMA {
		fmt.Fprintf(d.out, "  SMA %.4f", cd.SMA)
	}
	fmt.Fprintln(d.out, d.walletLine())
}

// walletLine 拼接钱包区域的展示内容
func (d *Dashboard) walletLine() string {
	var sb strings.Builder
	if d.wallet.IsConnected() {
		sb.WriteString("  | wallet " + service.ShortenAddress(d.wallet.Address()))
		sb.WriteString(" balance " + service.FormatAmount(d.wallet.Balance()))
	}
	if msg := d.wallet.StatusMessage(); msg != "" {
		sb.WriteString("  | " + msg)
	}
	return sb.String()
}

// ReadCommands 读取标准输入的表单命令，EOF 或 quit 时返回
// 支持: connect / pay <amount> <address> / history / balance / quit
func (d *Dashboard) ReadCommands(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		d.HandleCommand(context.Background(), line)
	}
}

// HandleCommand 处理单条表单命令
func (d *Dashboard) HandleCommand(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "connect":
		addr, err := d.wallet.Connect(ctx)
		if err != nil {
			fmt.Fprintf(d.out, "wallet connect failed: %v\n", err)
			return
		}
		fmt.Fprintf(d.out, "wallet connected: %s\n", addr)

	case "pay":
		req := wallet.PaymentRequest{}
		if len(fields) > 1 {
			req.Amount = fields[1]
		}
		if len(fields) > 2 {
			req.ToAddress = fields[2]
		}
		record, err := d.wallet.SubmitPayment(ctx, req)
		if err != nil {
			// 校验失败只展示提示信息，流程继续
			fmt.Fprintf(d.out, "%s\n", d.wallet.StatusMessage())
			return
		}
		fmt.Fprintf(d.out, "%s\n", record.String())

	case "history":
		records := d.wallet.History()
		if len(records) == 0 {
			fmt.Fprintln(d.out, "no payments yet")
			return
		}
		for _, r := range records {
			fmt.Fprintf(d.out, "%s\n", r.String())
		}

	case "balance":
		fmt.Fprintf(d.out, "balance: %s\n", service.FormatAmount(d.wallet.Balance()))

	default:
		fmt.Fprintf(d.out, "unknown command: %s (try: connect | pay <amount> <address> | history | balance | quit)\n", fields[0])
	}
}
