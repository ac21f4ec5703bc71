package monitor

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// OperationMetrics summarises one operation's timer
type OperationMetrics struct {
	Operation Operation     `json:"operation"`
	Count     int64         `json:"count"`
	Errors    int64         `json:"errors"`
	Total     time.Duration `json:"total_ns"`
	Min       time.Duration `json:"min_ns"`
	Max       time.Duration `json:"max_ns"`
	Avg       time.Duration `json:"avg_ns"`
}

// Tracker times pipeline operations and counts the rows they touch
type Tracker struct {
	mu     sync.RWMutex
	timers map[Operation]*Timer
	order  []Operation
	rows   *Counter
}

// NewTracker creates a tracker with no recorded operations
func NewTracker() *Tracker {
	return &Tracker{
		timers: make(map[Operation]*Timer),
		rows:   NewCounter("rows"),
	}
}

func (t *Tracker) timer(op Operation) *Timer {
	t.mu.RLock()
	timer, ok := t.timers[op]
	t.mu.RUnlock()
	if ok {
		return timer
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[op]; ok {
		return timer
	}
	timer = NewTimer(string(op))
	t.timers[op] = timer
	t.order = append(t.order, op)
	return timer
}

// Track runs fn and records its duration under op
func (t *Tracker) Track(op Operation, fn func() error) error {
	start := time.Now()
	err := fn()

	timer := t.timer(op)
	timer.Record(time.Since(start))
	if err != nil {
		timer.RecordError()
	}
	return err
}

// AddRows counts rows passed through the pipeline
func (t *Tracker) AddRows(n int) {
	t.rows.Add(int64(n))
}

// Rows returns the number of rows counted
func (t *Tracker) Rows() int64 {
	return t.rows.Get()
}

// Snapshot returns per-operation metrics in first-use order
func (t *Tracker) Snapshot() []OperationMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]OperationMetrics, 0, len(t.order))
	for _, op := range t.order {
		timer := t.timers[op]
		out = append(out, OperationMetrics{
			Operation: op,
			Count:     timer.Count(),
			Errors:    timer.Errors(),
			Total:     timer.TotalTime(),
			Min:       timer.MinTime(),
			Max:       timer.MaxTime(),
			Avg:       timer.AvgTime(),
		})
	}
	return out
}

// Summary renders the snapshot as one line per operation
func (t *Tracker) Summary() string {
	var b strings.Builder
	for _, m := range t.Snapshot() {
		fmt.Fprintf(&b, "%-7s runs=%d errors=%d avg=%s max=%s\n",
			m.Operation, m.Count, m.Errors, m.Avg.Round(time.Microsecond), m.Max.Round(time.Microsecond))
	}
	fmt.Fprintf(&b, "rows    %d\n", t.Rows())
	return b.String()
}
