package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchbook_orders_placed_total",
		Help: "Limit orders accepted into the book.",
	}, []string{"side"})

	OrdersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_orders_rejected_total",
		Help: "Orders rejected at the boundary for invalid price or quantity.",
	})

	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_orders_cancelled_total",
		Help: "Resting orders removed by cancellation.",
	})

	CancelNotFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_cancel_not_found_total",
		Help: "Cancellations of unknown or already-executed order ids.",
	})

	TradesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_trades_executed_total",
		Help: "Individual execution steps of the matching loop.",
	})

	TradedVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbook_traded_volume_total",
		Help: "Total executed quantity.",
	})
)
