package payments

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var escrowTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "escrow_payment_transitions_total",
		Help: "Escrow payment state transitions",
	},
	[]string{"status"},
)

// CountTransition инкрементирует счетчик переходов платежа в новый статус.
func CountTransition(status string) {
	escrowTransitionsTotal.WithLabelValues(status).Inc()
}
