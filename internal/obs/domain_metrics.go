package obs

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics groups Prometheus collectors for checkout quotes.
type QuoteMetrics struct {
	// QuotesTotal counts quote outcomes by customer type, method, tier and result.
	QuotesTotal *prometheus.CounterVec
	// QuoteAmount records the grand total of successful quotes.
	QuoteAmount *prometheus.HistogramVec
	// CacheLookups counts quote cache hits and misses.
	CacheLookups *prometheus.CounterVec
}

// NewQuoteMetrics registers and returns quote collectors. Collectors already
// registered on reg are reused.
func NewQuoteMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
	} else {
		sort.Float64s(buckets)
	}
	m := &QuoteMetrics{
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of checkout quote outcomes.",
		}, []string{"customer_type", "shipping_method", "tier", "result"}),
		QuoteAmount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_total_amount",
			Help:      "Distribution of quoted checkout totals.",
			Buckets:   buckets,
		}, []string{"customer_type"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_cache_lookups_total",
			Help:      "Count of quote cache lookups by outcome.",
		}, []string{"result"}),
	}
	mustRegisterCollector(reg, m.QuotesTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.QuotesTotal = v
		}
	})
	mustRegisterCollector(reg, m.QuoteAmount, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.HistogramVec); ok {
			m.QuoteAmount = v
		}
	})
	mustRegisterCollector(reg, m.CacheLookups, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.CacheLookups = v
		}
	})
	return m
}

// ObserveQuote records a quote outcome. Safe to call on a nil receiver.
func (m *QuoteMetrics) ObserveQuote(customerType, method, tier, result string, total float64) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(customerType, method, tier, result).Inc()
	if result == "ok" {
		m.QuoteAmount.WithLabelValues(customerType).Observe(total)
	}
}

// ObserveCache records a cache lookup. Safe to call on a nil receiver.
func (m *QuoteMetrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register quote metric: %w", err))
	}
}
