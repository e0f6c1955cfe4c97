package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseTS = int64(1_700_000_000_000)

func TestSampleWindow_InsertionOrder(t *testing.T) {
	w := NewSampleWindow(time.Hour)

	w.Append(Sample{Timestamp: baseTS, Price: 0.5230})
	w.Append(Sample{Timestamp: baseTS + 1000, Price: 0.5300})

	samples := w.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, Sample{Timestamp: baseTS, Price: 0.5230}, samples[0])
	assert.Equal(t, Sample{Timestamp: baseTS + 1000, Price: 0.5300}, samples[1])
}

func TestSampleWindow_KeepsSampleExactlyOneHourOld(t *testing.T) {
	w := NewSampleWindow(time.Hour)

	w.Append(Sample{Timestamp: baseTS, Price: 1.0})
	w.Append(Sample{Timestamp: baseTS + time.Hour.Milliseconds(), Price: 2.0})

	// 恰好一小时的边界样本仍保留
	assert.Equal(t, 2, w.Len())
}

func TestSampleWindow_EvictsOlderThanOneHour(t *testing.T) {
	w := NewSampleWindow(time.Hour)

	w.Append(Sample{Timestamp: baseTS, Price: 1.0})
	w.Append(Sample{Timestamp: baseTS + 61*time.Minute.Milliseconds(), Price: 2.0})

	samples := w.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, 2.0, samples[0].Price)
}

func TestSampleWindow_InvariantAfterEachInsertion(t *testing.T) {
	w := NewSampleWindow(time.Hour)

	offsets := []int64{0, 10, 600_000, 1_800_000, 3_500_000, 3_700_000, 7_300_000}
	for _, off := range offsets {
		s := Sample{Timestamp: baseTS + off, Price: float64(off)}
		w.Append(s)

		// 每次插入后，窗口内只包含距最新样本一小时以内的数据
		cutoff := s.Timestamp - time.Hour.Milliseconds()
		for _, kept := range w.Samples() {
			assert.GreaterOrEqual(t, kept.Timestamp, cutoff)
		}
	}

	// 7_300_000 只保留 3_700_000 和它自己
	assert.Equal(t, 2, w.Len())
}

func TestSampleWindow_SamplesReturnsCopy(t *testing.T) {
	w := NewSampleWindow(time.Hour)
	w.Append(Sample{Timestamp: baseTS, Price: 1.0})

	out := w.Samples()
	out[0].Price = 99.0

	assert.Equal(t, 1.0, w.Samples()[0].Price)
}

func TestSampleWindow_DefaultSpan(t *testing.T) {
	w := NewSampleWindow(0)
	assert.Equal(t, DefaultWindowSpan, w.Span())
}

func TestTick_Sample(t *testing.T) {
	tick := Tick{
		Symbol:    "XRPUSDT",
		Price:     decimal.RequireFromString("0.5230"),
		EventTime: baseTS,
	}

	s := tick.Sample()
	assert.Equal(t, baseTS, s.Timestamp)
	assert.Equal(t, 0.5230, s.Price)
}

func TestSampleWindow_Latest(t *testing.T) {
	w := NewSampleWindow(time.Hour)

	_, ok := w.Latest()
	assert.False(t, ok)

	w.Append(Sample{Timestamp: baseTS, Price: 1.0})
	w.Append(Sample{Timestamp: baseTS + 1, Price: 2.0})

	latest, ok := w.Latest()
	require.True(t, ok)
	assert.Equal(t, 2.0, latest.Price)
}
