//go:build !noprom

package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	stageTotal   *prom.CounterVec
	stageSeconds *prom.HistogramVec
	toolTotal    *prom.CounterVec
	toolSeconds  *prom.HistogramVec
	graphNodes   prom.Gauge
	graphEdges   prom.Gauge
}

func (p *promRecorder) IncStageTotal(stage string, success bool) {
	p.stageTotal.WithLabelValues(stage, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveStageSeconds(stage string, success bool, seconds float64) {
	p.stageSeconds.WithLabelValues(stage, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncToolTotal(tool string, success bool) {
	p.toolTotal.WithLabelValues(tool, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveToolSeconds(tool string, success bool, seconds float64) {
	p.toolSeconds.WithLabelValues(tool, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) ObserveGraphSize(nodes, edges int) {
	p.graphNodes.Set(float64(nodes))
	p.graphEdges.Set(float64(edges))
}

func enablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	p := &promRecorder{
		stageTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "pipeline_stage_total",
			Help: "Total number of query pipeline stage executions",
		}, []string{"stage", "success"}),
		stageSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "pipeline_stage_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"stage", "success"}),
		toolTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "tool_calls_total",
			Help: "Total number of tool handler calls",
		}, []string{"tool", "success"}),
		toolSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "tool_call_seconds",
			Help:    "Tool handler duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"tool", "success"}),
		graphNodes: prom.NewGauge(prom.GaugeOpts{
			Name: "knowledge_graph_nodes",
			Help: "Current number of knowledge graph nodes",
		}),
		graphEdges: prom.NewGauge(prom.GaugeOpts{
			Name: "knowledge_graph_edges",
			Help: "Current number of knowledge graph edges",
		}),
	}

	registry.MustRegister(p.stageTotal, p.stageSeconds, p.toolTotal, p.toolSeconds, p.graphNodes, p.graphEdges)
	SetRecorder(p)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
