package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService commits and voids sales. A commit is one database
// transaction: header, line items, conditional stock decrements and client
// aggregates succeed or fail together.
type SaleService struct {
	store          *store.Store
	stock          *StockService
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(store *store.Store, stock *StockService, eventPublisher *broker.EventPublisher) *SaleService {
	return &SaleService{
		store:          store,
		stock:          stock,
		eventPublisher: eventPublisher,
		logger:         util.NamedLogger("sales"),
	}
}

// SaleLineRequest is one requested checkout line
type SaleLineRequest struct {
	VariantID int64 `json:"variant_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CommitSaleRequest is a checkout confirmation
type CommitSaleRequest struct {
	LocationID      int64             `json:"location_id" binding:"required"`
	ClientID        *int64            `json:"client_id,omitempty"`
	DiscountPercent int               `json:"discount_percent" binding:"min=0,max=100"`
	Lines           []SaleLineRequest `json:"lines" binding:"required,min=1"`
	IdempotencyKey  string            `json:"idempotency_key,omitempty"`
}

// CommitSaleResponse is returned after a successful (or replayed) commit
type CommitSaleResponse struct {
	SaleID        int64 `json:"sale_id"`
	SubtotalCents int64 `json:"subtotal_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// CommitSale validates the cart against current stock, then runs the commit
// transaction. Retries with the same idempotency key return the original
// sale without touching stock again.
func (ss *SaleService) CommitSale(ctx context.Context, tenantID int64, req *CommitSaleRequest) (*CommitSaleResponse, error) {
	ctx, span := util.StartSpan(ctx, "SaleService.CommitSale")
	defer span.End()

	start := time.Now()
	defer func() {
		util.SaleCommitLatency.Observe(time.Since(start).Seconds())
	}()

	if len(req.Lines) == 0 {
		util.SalesFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}

	existing, err := ss.store.GetSaleByIdempotencyKey(ctx, tenantID, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing != nil {
		ss.logger.Info("Duplicate sale request detected",
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Int64("sale_id", existing.ID))
		return &CommitSaleResponse{
			SaleID:        existing.ID,
			SubtotalCents: existing.SubtotalCents,
			TotalCents:    existing.TotalCents,
		}, nil
	}

	if _, err := ss.store.GetLocationByID(ctx, tenantID, req.LocationID); err != nil {
		return nil, err
	}
	if req.ClientID != nil {
		if _, err := ss.store.GetClientByID(ctx, tenantID, *req.ClientID); err != nil {
			return nil, err
		}
	}

	cart, err := ss.buildCart(ctx, tenantID, req)
	if err != nil {
		util.SalesFailedTotal.WithLabelValues("invalid_lines").Inc()
		return nil, err
	}
	if cart.Empty() {
		util.SalesFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	totals := cart.Totals(req.DiscountPercent)

	sale := &models.Sale{
		TenantID:        tenantID,
		LocationID:      req.LocationID,
		ClientID:        req.ClientID,
		SubtotalCents:   totals.SubtotalCents,
		DiscountPercent: req.DiscountPercent,
		TotalCents:      totals.TotalCents,
		IdempotencyKey:  req.IdempotencyKey,
	}

	items := make([]models.SaleItem, 0, len(cart.Lines()))
	for _, line := range cart.Lines() {
		items = append(items, models.SaleItem{
			VariantID:      line.VariantID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	lines, err := ss.store.CommitSale(ctx, sale, items)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost an idempotency race to a concurrent retry; return its sale.
			winner, readErr := ss.store.GetSaleByIdempotencyKey(ctx, tenantID, req.IdempotencyKey)
			if readErr == nil && winner != nil {
				return &CommitSaleResponse{
					SaleID:        winner.ID,
					SubtotalCents: winner.SubtotalCents,
					TotalCents:    winner.TotalCents,
				}, nil
			}
		}
		if errors.Is(err, store.ErrInsufficientStock) {
			util.SalesFailedTotal.WithLabelValues("insufficient_stock").Inc()
		} else {
			util.SalesFailedTotal.WithLabelValues("db_error").Inc()
		}
		return nil, fmt.Errorf("sale commit failed: %w", err)
	}

	util.SalesCommittedTotal.Inc()
	util.StockAdjustmentsTotal.WithLabelValues("out").Add(float64(len(lines)))
	ss.logger.Info("Sale committed",
		zap.Int64("tenant_id", tenantID),
		zap.Int64("sale_id", sale.ID),
		zap.Int64("total_cents", sale.TotalCents),
		zap.Int("lines", len(lines)))

	ss.stock.syncAfterSale(ctx, sale.LocationID, lines)

	event := &models.SaleCommittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCommitted,
			Timestamp: time.Now(),
		},
		SaleID:     sale.ID,
		TenantID:   sale.TenantID,
		LocationID: sale.LocationID,
		ClientID:   sale.ClientID,
		TotalCents: sale.TotalCents,
		Lines:      lines,
	}
	if err := ss.eventPublisher.PublishSaleCommitted(ctx, event); err != nil {
		ss.logger.Error("Failed to publish SaleCommitted event", zap.Error(err))
	}

	return &CommitSaleResponse{
		SaleID:        sale.ID,
		SubtotalCents: sale.SubtotalCents,
		TotalCents:    sale.TotalCents,
	}, nil
}

// buildCart prices each requested line from the stock ledger and clamps
// quantities to what is on hand. A line whose variant has no stock at the
// location rejects the whole request. The clamped quantities are still only
// a snapshot; the commit transaction re-checks at write time.
func (ss *SaleService) buildCart(ctx context.Context, tenantID int64, req *CommitSaleRequest) (*Cart, error) {
	cart := NewCart()
	for _, line := range req.Lines {
		entry, err := ss.store.GetStockEntry(ctx, tenantID, line.VariantID, req.LocationID)
		if err != nil {
			return nil, err
		}
		if entry == nil || entry.Quantity <= 0 {
			return nil, fmt.Errorf("variant %d at location %d: %w", line.VariantID, req.LocationID, ErrOutOfStock)
		}
		if _, err := cart.Add(line.VariantID, line.Quantity, entry.Quantity, entry.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("variant %d: %w", line.VariantID, err)
		}
	}
	return cart, nil
}

// VoidSale deletes a sale, restores its stock and reverses the client
// aggregates in one transaction
func (ss *SaleService) VoidSale(ctx context.Context, tenantID, saleID int64) error {
	ctx, span := util.StartSpan(ctx, "SaleService.VoidSale")
	defer span.End()

	sale, items, err := ss.store.VoidSale(ctx, tenantID, saleID)
	if err != nil {
		return err
	}

	util.SalesVoidedTotal.Inc()
	ss.logger.Info("Sale voided",
		zap.Int64("tenant_id", tenantID),
		zap.Int64("sale_id", saleID))

	ss.stock.invalidateAfterVoid(ctx, sale.LocationID, items)

	event := &models.SaleVoidedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleVoided,
			Timestamp: time.Now(),
		},
		SaleID:     sale.ID,
		TenantID:   sale.TenantID,
		LocationID: sale.LocationID,
		TotalCents: sale.TotalCents,
	}
	if err := ss.eventPublisher.PublishSaleVoided(ctx, event); err != nil {
		ss.logger.Error("Failed to publish SaleVoided event", zap.Error(err))
	}
	return nil
}

// GetSale retrieves a sale with its items
func (ss *SaleService) GetSale(ctx context.Context, tenantID, saleID int64) (*models.Sale, []models.SaleItem, error) {
	sale, err := ss.store.GetSaleByID(ctx, tenantID, saleID)
	if err != nil {
		return nil, nil, err
	}
	items, err := ss.store.GetSaleItems(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}
	return sale, items, nil
}

// ListSales retrieves sales in a time range, optionally for one location
func (ss *SaleService) ListSales(ctx context.Context, tenantID int64, locationID *int64, from, to time.Time) ([]models.Sale, error) {
	return ss.store.GetSales(ctx, tenantID, locationID, from, to)
}
