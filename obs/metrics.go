package obs

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the per-process set of shard-labeled Prometheus
// collectors. The shard count is fixed at process start, so the
// processed, trades, queue-depth and resting series for every shard are
// created once up front in NewMetrics. The rejected-orders counter is
// not: its (shard, reason) series is created on the first rejection.
type Metrics struct {
	ordersProcessed *prometheus.CounterVec
	ordersRejected  *prometheus.CounterVec
	tradesTotal     *prometheus.CounterVec
	queueDepth      *prometheus.GaugeVec
	ordersResting   *prometheus.GaugeVec
}

// NewMetrics creates and registers the engine's metrics against reg
// (typically prometheus.DefaultRegisterer), with one label value per
// shard in [0, numShards).
func NewMetrics(reg prometheus.Registerer, numShards int) *Metrics {
	m := &Metrics{
		ordersProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shardmatch",
			Name:      "shard_orders_processed_total",
			Help:      "Orders successfully matched or rested, per shard.",
		}, []string{"shard"}),
		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shardmatch",
			Name:      "shard_orders_rejected_total",
			Help:      "Orders rejected at the worker boundary, per shard and reason.",
		}, []string{"shard", "reason"}),
		tradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shardmatch",
			Name:      "shard_trades_total",
			Help:      "Trades emitted by the matcher, per shard.",
		}, []string{"shard"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "shardmatch",
			Name:      "shard_queue_depth",
			Help:      "Approximate ring buffer occupancy, sampled after each processed order.",
		}, []string{"shard"}),
		ordersResting: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "shardmatch",
			Name:      "shard_orders_resting",
			Help:      "Total remaining quantity resting across a shard's books, sampled after each processed order. Reflects P1 conservation.",
		}, []string{"shard"}),
	}

	reg.MustRegister(m.ordersProcessed, m.ordersRejected, m.tradesTotal, m.queueDepth, m.ordersResting)

	for i := 0; i < numShards; i++ {
		label := shardLabel(i)
		m.ordersProcessed.WithLabelValues(label)
		m.tradesTotal.WithLabelValues(label)
		m.queueDepth.WithLabelValues(label)
		m.ordersResting.WithLabelValues(label)
	}

	return m
}

func shardLabel(coreID int) string {
	return strconv.Itoa(coreID)
}

func (m *Metrics) IncOrdersProcessed(coreID int) {
	m.ordersProcessed.WithLabelValues(shardLabel(coreID)).Inc()
}

func (m *Metrics) IncRejected(coreID int, reason string) {
	m.ordersRejected.WithLabelValues(shardLabel(coreID), reason).Inc()
}

func (m *Metrics) AddTrades(coreID int, n int) {
	m.tradesTotal.WithLabelValues(shardLabel(coreID)).Add(float64(n))
}

func (m *Metrics) ObserveQueueDepth(coreID int, depth int) {
	m.queueDepth.WithLabelValues(shardLabel(coreID)).Set(float64(depth))
}

func (m *Metrics) ObserveOrdersResting(coreID int, resting uint64) {
	m.ordersResting.WithLabelValues(shardLabel(coreID)).Set(float64(resting))
}
