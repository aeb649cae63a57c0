package store

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-qa-backend/internal/apperr"
)

var (
	// storeRecords gauges live records per collection, summed over every
	// Store in the process.
	storeRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qa_store_records",
			Help: "Number of live records per collection.",
		},
		[]string{"collection"},
	)

	// storeOps counts store operations by collection, operation, and outcome
	// ("ok" or the error kind tag).
	storeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qa_store_operations_total",
			Help: "Total number of store operations.",
		},
		[]string{"collection", "op", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(storeRecords, storeOps)
}

// recordsDelta moves the live-record gauge by d. Stores only ever adjust it,
// so building a new Store leaves the counts of existing ones intact.
func recordsDelta(collection string, d float64) {
	storeRecords.WithLabelValues(collection).Add(d)
}

func countOp(collection, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	storeOps.WithLabelValues(collection, op, outcome).Inc()
}
