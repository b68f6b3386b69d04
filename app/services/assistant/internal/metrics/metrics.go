package metrics

import "github.com/zeromicro/go-zero/core/metric"

const namespace = "assistant"

var (
	// OracleOutcomes counts oracle calls by node and status (ok, fallback, failed).
	OracleOutcomes = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "oracle",
		Name:      "outcomes_total",
		Help:      "oracle outcomes by node and status",
		Labels:    []string{"node", "status"},
	})

	NodeRuns = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      "node_runs_total",
		Help:      "routing graph node executions",
		Labels:    []string{"node"},
	})

	CartWriteRejected = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      "cart_write_rejected_total",
		Help:      "cart writes dropped because they came from a node other than cart_manager",
		Labels:    []string{"node"},
	})

	TurnDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: namespace,
		Subsystem: "turn",
		Name:      "duration_ms",
		Help:      "turn latency in milliseconds",
		Labels:    []string{"outcome"},
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	SearchSourceResults = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "search",
		Name:      "source_calls_total",
		Help:      "search source calls by source and outcome",
		Labels:    []string{"source", "outcome"},
	})
)
