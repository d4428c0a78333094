// Package metrics exposes Prometheus instrumentation for the pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scaffolder/pkg/logx"
)

//nolint:gochecknoglobals // Prometheus collectors are process-wide by design.
var (
	// LLMRequests counts completion calls by backend and outcome.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Number of LLM completion requests.",
	}, []string{"backend", "outcome"})

	// LLMTokens tracks approximate token usage by kind (prompt/completion).
	LLMTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Approximate LLM token usage.",
	}, []string{"kind"})

	// ToolCalls counts tool executions by tool name and outcome.
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tool_calls_total",
		Help: "Number of tool executions performed by the coder loop.",
	}, []string{"tool", "outcome"})

	// RetrySleeps counts fixed-backoff sleeps taken on rate limits.
	RetrySleeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retry_sleeps_total",
		Help: "Number of backoff sleeps taken after rate-limit failures.",
	})

	// CoderSteps counts implementation steps by outcome.
	CoderSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coder_steps_total",
		Help: "Number of implementation steps processed by the coder.",
	}, []string{"outcome"})
)

// Serve starts an HTTP listener exposing /metrics in a background goroutine.
// Errors are logged, not fatal: metrics are best-effort observability.
func Serve(addr string) {
	if addr == "" {
		return
	}
	logger := logx.NewLogger("metrics")
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed: %v", err)
		}
	}()
}
