package service

import (
	"fmt"
	"sync"
	"time"
)

// RunMetrics tracks statistics about one batch analysis run
type RunMetrics struct {
	mu           sync.RWMutex
	StartTime    time.Time
	Duration     time.Duration
	Events       int
	Targets      int
	EmittedRows  int
	NotFoundRows int
	ErrorRows    int
}

// NewRunMetrics creates a new metrics tracker
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *RunMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.Events = 0
	m.Targets = 0
	m.EmittedRows = 0
	m.NotFoundRows = 0
	m.ErrorRows = 0
}

// SetScope records the size of the run's input
func (m *RunMetrics) SetScope(events, targets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = events
	m.Targets = targets
}

// RecordRow increments the emitted row count
func (m *RunMetrics) RecordRow() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmittedRows++
}

// RecordNotFound increments the silently dropped row count
func (m *RunMetrics) RecordNotFound() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotFoundRows++
}

// RecordError increments the failed row count
func (m *RunMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorRows++
}

// SetDuration records the run's wall-clock time
func (m *RunMetrics) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = d
}

// Skipped returns the total dropped target count
func (m *RunMetrics) Skipped() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.NotFoundRows + m.ErrorRows
}

// String returns a formatted string representation of metrics
func (m *RunMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emitRate := float64(0)
	if m.Targets > 0 {
		emitRate = float64(m.EmittedRows) / float64(m.Targets) * 100
	}

	return fmt.Sprintf(
		"RunMetrics{Events=%d, Targets=%d, Emitted=%d (%.1f%%), NotFound=%d, Errors=%d, Duration=%v}",
		m.Events,
		m.Targets,
		m.EmittedRows,
		emitRate,
		m.NotFoundRows,
		m.ErrorRows,
		m.Duration,
	)
}
