package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartsPricedTotal counts cart pricing outcomes by result.
	CartsPricedTotal *prometheus.CounterVec
	// OrdersPlacedTotal counts order placement outcomes by result.
	OrdersPlacedTotal *prometheus.CounterVec
	// OrderNumberFallbackTotal counts order numbers minted via the time-derived fallback.
	OrderNumberFallbackTotal prometheus.Counter
	// LedgerUpdateFailures counts vendor ledger updates that failed after the order was written.
	LedgerUpdateFailures prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartsPricedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carts_priced_total",
			Help:      "Count of cart pricing outcomes.",
		}, []string{"result"})
		OrdersPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Count of wholesale order placement outcomes.",
		}, []string{"result"})
		OrderNumberFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_number_fallback_total",
			Help:      "Number of order numbers produced by the time-derived fallback.",
		})
		LedgerUpdateFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_update_failures_total",
			Help:      "Vendor ledger updates that failed after a successful order write.",
		})

		mustRegisterCollector(reg, CartsPricedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartsPricedTotal = v
			}
		})
		mustRegisterCollector(reg, OrdersPlacedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrdersPlacedTotal = v
			}
		})
		mustRegisterCollector(reg, OrderNumberFallbackTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrderNumberFallbackTotal = v
			}
		})
		mustRegisterCollector(reg, LedgerUpdateFailures, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				LedgerUpdateFailures = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
