// Package metrics содержит prometheus-счетчики операций бронирования.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счетчики успешных операций движка бронирования. Отказы в них не
// попадают — ошибки видны в логах и HTTP-статусах.
var (
	// OrdersTotal число успешных заказов ваучеров.
	OrdersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voucher_orders_total",
		Help: "Total number of successfully ordered vouchers.",
	})

	// CancellationsTotal число успешных отмен брони.
	CancellationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voucher_cancellations_total",
		Help: "Total number of canceled bookings.",
	})

	// PaymentsTotal число успешных оплат брони.
	PaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voucher_payments_total",
		Help: "Total number of paid bookings.",
	})
)
