package metrics

import (
	"sync"
	"time"
)

// Package metrics provides a minimal instrumentation interface with a no-op
// default and optional Prometheus-backed implementation enabled via config.

// Recorder defines the metrics surface used across the codebase.
type Recorder interface {
	IncStageTotal(stage string, success bool)
	ObserveStageSeconds(stage string, success bool, seconds float64)
	IncToolTotal(tool string, success bool)
	ObserveToolSeconds(tool string, success bool, seconds float64)
	ObserveGraphSize(nodes, edges int)
}

// noopRecorder implements Recorder with no-ops.
type noopRecorder struct{}

func (n *noopRecorder) IncStageTotal(string, bool)                {}
func (n *noopRecorder) ObserveStageSeconds(string, bool, float64) {}
func (n *noopRecorder) IncToolTotal(string, bool)                 {}
func (n *noopRecorder) ObserveToolSeconds(string, bool, float64)  {}
func (n *noopRecorder) ObserveGraphSize(int, int)                 {}

var (
	recMu    sync.RWMutex
	recorder Recorder = &noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	recorder = r
}

// TimeStage is a helper to time pipeline stages (extract, classify, search,
// dispatch, snapshot).
func TimeStage(stage string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncStageTotal(stage, success)
		Default().ObserveStageSeconds(stage, success, dur)
	}
}

// TimeTool is a helper to time tool handler operations.
func TimeTool(tool string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncToolTotal(tool, success)
		Default().ObserveToolSeconds(tool, success, dur)
	}
}

// Init enables the Prometheus exporter when enabled is true, serving
// /metrics and /healthz on addr (default :9090). Failure keeps the no-op
// recorder.
func Init(enabled bool, addr string) {
	if !enabled {
		return
	}
	if addr == "" {
		addr = ":9090"
	}
	_ = enablePrometheus(addr)
}
