package worker

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/redisclient"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// DashboardWorker consumes sale and stock events: it maintains the live
// daily counters in Redis and raises low-stock alerts. Handlers are
// idempotent through the processed_events table, so event redelivery is
// harmless.
type DashboardWorker struct {
	consumer          *broker.Consumer
	eventHandler      *broker.EventHandler
	store             *store.Store
	redis             *redisclient.Client
	lowStockThreshold int
	logger            *zap.Logger
}

// NewDashboardWorker creates a new dashboard worker
func NewDashboardWorker(
	consumer *broker.Consumer,
	store *store.Store,
	redis *redisclient.Client,
	lowStockThreshold int,
) *DashboardWorker {
	w := &DashboardWorker{
		consumer:          consumer,
		store:             store,
		redis:             redis,
		lowStockThreshold: lowStockThreshold,
		logger:            util.NamedLogger("worker"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnSaleCommitted(w.handleSaleCommitted)
	eventHandler.OnSaleVoided(w.handleSaleVoided)
	eventHandler.OnStockAdjusted(w.handleStockAdjusted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *DashboardWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting dashboard worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *DashboardWorker) Stop() error {
	w.logger.Info("Stopping dashboard worker")
	return w.consumer.Close()
}

func (w *DashboardWorker) handleSaleCommitted(ctx context.Context, event *models.SaleCommittedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		return nil
	}

	day := event.Timestamp.UTC().Format("2006-01-02")
	if err := w.redis.IncrDashboard(ctx, event.TenantID, event.LocationID, day, 1, event.TotalCents); err != nil {
		// Not marked processed, so the message is redelivered and retried.
		return fmt.Errorf("failed to update dashboard counters for sale %d: %w", event.SaleID, err)
	}

	for _, line := range event.Lines {
		if line.Remaining < w.lowStockThreshold {
			util.LowStockAlertsTotal.Inc()
			w.logger.Warn("Low stock",
				zap.Int64("tenant_id", event.TenantID),
				zap.Int64("variant_id", line.VariantID),
				zap.Int64("location_id", event.LocationID),
				zap.Int("remaining", line.Remaining))
		}
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *DashboardWorker) handleSaleVoided(ctx context.Context, event *models.SaleVoidedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		return nil
	}

	day := event.Timestamp.UTC().Format("2006-01-02")
	if err := w.redis.IncrDashboard(ctx, event.TenantID, event.LocationID, day, -1, -event.TotalCents); err != nil {
		return fmt.Errorf("failed to reverse dashboard counters for sale %d: %w", event.SaleID, err)
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *DashboardWorker) handleStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	// Restocks need no counter bookkeeping; log for the audit trail.
	w.logger.Info("Stock adjusted",
		zap.Int64("tenant_id", event.TenantID),
		zap.Int64("variant_id", event.VariantID),
		zap.Int64("location_id", event.LocationID),
		zap.Int("delta", event.Delta),
		zap.Int("remaining", event.Remaining),
		zap.Time("at", event.Timestamp.Truncate(time.Second)))
	return nil
}
