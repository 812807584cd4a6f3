// Prometheus counters the monitor updates while it runs:
//
//	desk_trigger_ticks_total{behavior}              monitor passes completed
//	desk_trigger_executions_total{behavior}         triggers fired successfully
//	desk_trigger_execution_failures_total{behavior} rejected or failed actions (retried)
//	desk_trigger_reconciled_total{behavior}         triggers removed for vanished positions
//
// Exposition is the embedding program's concern; the desk only registers
// and increments.

package trigger

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "desk_trigger_ticks_total",
			Help: "Monitor evaluation passes completed",
		},
		[]string{"behavior"},
	)

	mtxExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "desk_trigger_executions_total",
			Help: "Triggers executed successfully",
		},
		[]string{"behavior"},
	)

	mtxExecFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "desk_trigger_execution_failures_total",
			Help: "Trigger actions rejected or failed, left active for retry",
		},
		[]string{"behavior"},
	)

	mtxReconciled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "desk_trigger_reconciled_total",
			Help: "Triggers removed because their position no longer exists",
		},
		[]string{"behavior"},
	)
)

func init() {
	prometheus.MustRegister(mtxTicks, mtxExecutions, mtxExecFailures, mtxReconciled)
}
