package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_orders_placed_total",
			Help: "Total number of orders placed",
		},
	)

	orderRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_order_rejections_total",
			Help: "Total number of orders rejected before placement",
		},
		[]string{"reason"},
	)
)

const (
	rejectNoItems      = "no_items"
	rejectMissing      = "product_not_found"
	rejectInsufficient = "insufficient_stock"
)
