package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tienda_cart_operations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"operation", "outcome"})

	cartConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tienda_cart_version_conflicts_total",
		Help: "Cart saves that lost an optimistic version race.",
	})

	checkoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tienda_checkouts_total",
		Help: "WhatsApp hand-offs by outcome.",
	}, []string{"outcome"})

	checkoutAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tienda_checkout_amount",
		Help:    "Order totals handed off to WhatsApp.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 10),
	})
)

func observeCartOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	cartOperationsTotal.WithLabelValues(op, outcome).Inc()
}
