package ledger

import "github.com/prometheus/client_golang/prometheus"

var operationCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "How many ledger operations were processed, partitioned by operation and result.",
	},
	[]string{"operation", "result"},
)

// Collectors returns the Prometheus collectors of the ledger.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{operationCount}
}

func observe(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}

	operationCount.WithLabelValues(operation, result).Inc()
}
