package model

import "time"

// DefaultWindowSpan 图表窗口默认保留最近一小时的采样
const DefaultWindowSpan = time.Hour

// SampleWindow 按插入顺序保存采样点，只按时间跨度淘汰，不限制条数。
// 窗口不变式：所有成员的时间戳 >= 最新插入采样的时间戳 - span。
// 本结构不加锁，由持有它的 Engine 负责串行访问。
type SampleWindow struct {
	span    time.Duration
	samples []Sample
}

// NewSampleWindow 创建窗口，span <= 0 时使用默认的一小时
func NewSampleWindow(span time.Duration) *SampleWindow {
	if span <= 0 {
		span = DefaultWindowSpan
	}
	return &SampleWindow{span: span}
}

// Append 追加采样点，并以该点的时间戳为基准淘汰窗口外的旧数据
func (w *SampleWindow) Append(s Sample) {
	w.samples = append(w.samples, s)

	cutoff := s.Timestamp - w.span.Milliseconds()
	kept := w.samples[:0]
	for _, p := range w.samples {
		if p.Timestamp >= cutoff {
			kept = append(kept, p)
		}
	}
	w.samples = kept
}

// Samples 返回窗口内容的副本，防止外部修改
func (w *SampleWindow) Samples() []Sample {
	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Len 返回窗口内的采样数量
func (w *SampleWindow) Len() int {
	return len(w.samples)
}

// Latest 返回最近一次插入的采样
func (w *SampleWindow) Latest() (Sample, bool) {
	if len(w.samples) == 0 {
		return Sample{}, false
	}
	return w.samples[len(w.samples)-1], true
}

// Span 返回窗口的时间跨度
func (w *SampleWindow) Span() time.Duration {
	return w.span
}
