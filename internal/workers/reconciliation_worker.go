package workers

import (
	"context"
	"time"

	"talentlink_backend/internal/logger"
	"talentlink_backend/internal/services"
)

const (
	reconcileInterval = 5 * time.Minute
	// Платеж считается зависшим, если вебхук не пришел за 15 минут
	reconcileMinAge = 15 * time.Minute
	reconcileBatch  = 50
)

// ReconciliationWorker периодически опрашивает провайдера о статусе
// зависших pending-платежей. Закрывает окно потерянных вебхуков.
type ReconciliationWorker struct {
	paymentService services.PaymentService
	stop           chan struct{}
}

func NewReconciliationWorker(paymentService services.PaymentService) *ReconciliationWorker {
	return &ReconciliationWorker{
		paymentService: paymentService,
		stop:           make(chan struct{}),
	}
}

func (w *ReconciliationWorker) Run() {
	logger.Info("Reconciliation worker started", "interval", reconcileInterval.String())
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce()
		case <-w.stop:
			logger.Info("Reconciliation worker stopped")
			return
		}
	}
}

func (w *ReconciliationWorker) Stop() {
	close(w.stop)
}

func (w *ReconciliationWorker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	updated, err := w.paymentService.ReconcilePending(ctx, reconcileMinAge, reconcileBatch)
	if err != nil {
		logger.WorkerLog("reconciliation", "reconcile_pending", err)
		return
	}
	if updated > 0 {
		logger.Info("Reconciled stale payments", "updated", updated)
	}
}
