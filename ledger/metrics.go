package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "hcoin"

// Metrics holds the ledger's prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	HashAttempts   prometheus.Counter
	BlocksMined    prometheus.Counter
	MiningDuration prometheus.Histogram
	ChainHeight    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg, if not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HashAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "hash_attempts_total",
			Help:      "Number of candidate hashes computed while mining.",
		}),
		BlocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "blocks_mined_total",
			Help:      "Number of blocks found by a nonce search. Candidates that were already mined are not counted.",
		}),
		MiningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "mining_duration_seconds",
			Help:      "Time spent searching for a nonce, including abandoned searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		ChainHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "chain_height",
			Help:      "Number of blocks in the ledger.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.HashAttempts, m.BlocksMined, m.MiningDuration, m.ChainHeight)
	}
	return m
}

func (m *Metrics) observeSearch(attempts uint64, elapsed time.Duration, mined bool) {
	if m == nil {
		return
	}
	m.HashAttempts.Add(float64(attempts))
	m.MiningDuration.Observe(elapsed.Seconds())
	if mined {
		m.BlocksMined.Inc()
	}
}

func (m *Metrics) setHeight(n int) {
	if m == nil {
		return
	}
	m.ChainHeight.Set(float64(n))
}
