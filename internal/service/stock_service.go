package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/redisclient"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// StockService is the ledger of per-(variant, location) quantities and
// prices. Postgres is authoritative; Redis mirrors quantities for cheap
// availability reads.
type StockService struct {
	store          *store.Store
	redis          *redisclient.Client
	catalog        *CatalogService
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(
	store *store.Store,
	redis *redisclient.Client,
	catalog *CatalogService,
	eventPublisher *broker.EventPublisher,
) *StockService {
	return &StockService{
		store:          store,
		redis:          redis,
		catalog:        catalog,
		eventPublisher: eventPublisher,
		logger:         util.NamedLogger("stock"),
	}
}

// Availability returns the quantity on hand for a (variant, location) pair,
// zero when no stock entry exists. Served from the Redis mirror when warm.
func (ss *StockService) Availability(ctx context.Context, tenantID, variantID, locationID int64) (int, error) {
	ctx, span := util.StartSpan(ctx, "StockService.Availability")
	defer span.End()

	// The cache key carries no tenant; location ownership must be
	// established before any cached quantity is served.
	if _, err := ss.store.GetLocationByID(ctx, tenantID, locationID); err != nil {
		return 0, err
	}

	qty, hit, err := ss.redis.GetStock(ctx, locationID, variantID)
	if err != nil {
		ss.logger.Warn("Redis availability read failed, falling back to DB",
			zap.Int64("variant_id", variantID),
			zap.Error(err))
	} else if hit {
		return qty, nil
	}

	entry, err := ss.store.GetStockEntry(ctx, tenantID, variantID, locationID)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return 0, nil
	}

	if err := ss.redis.InitStock(ctx, locationID, variantID, entry.Quantity); err != nil {
		ss.logger.Warn("Failed to seed stock cache", zap.Error(err))
	}
	return entry.Quantity, nil
}

// GetEntry reads the authoritative stock entry, nil when none exists yet
func (ss *StockService) GetEntry(ctx context.Context, tenantID, variantID, locationID int64) (*models.StockEntry, error) {
	return ss.store.GetStockEntry(ctx, tenantID, variantID, locationID)
}

// LocationStock lists every stock entry at a branch
func (ss *StockService) LocationStock(ctx context.Context, tenantID, locationID int64) ([]models.StockEntry, error) {
	if _, err := ss.store.GetLocationByID(ctx, tenantID, locationID); err != nil {
		return nil, err
	}
	return ss.store.GetStockByLocation(ctx, tenantID, locationID)
}

// RestockRequest adds units of a product configuration at a location. The
// variant is resolved from the option set and created on first restock.
type RestockRequest struct {
	ProductID  int64   `json:"product_id" binding:"required"`
	OptionIDs  []int64 `json:"option_ids"`
	LocationID int64   `json:"location_id" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,min=1"`
	PriceCents int64   `json:"price_cents" binding:"min=0"`
}

// Restock applies a restock: the variant is ensured, then the stock entry
// is upserted. On an existing entry the quantity accumulates and the stored
// price stays as first entered; price changes go through SetPrice.
func (ss *StockService) Restock(ctx context.Context, tenantID int64, req *RestockRequest) (*models.StockEntry, error) {
	ctx, span := util.StartSpan(ctx, "StockService.Restock")
	defer span.End()

	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := ss.store.GetLocationByID(ctx, tenantID, req.LocationID); err != nil {
		return nil, err
	}

	variant, err := ss.catalog.EnsureVariant(ctx, tenantID, req.ProductID, req.OptionIDs)
	if err != nil {
		return nil, err
	}

	entry := &models.StockEntry{
		TenantID:       tenantID,
		VariantID:      variant.ID,
		LocationID:     req.LocationID,
		Quantity:       req.Quantity,
		UnitPriceCents: req.PriceCents,
	}
	if err := ss.store.Restock(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to restock: %w", err)
	}

	util.StockAdjustmentsTotal.WithLabelValues("in").Inc()

	if err := ss.redis.InitStock(ctx, req.LocationID, variant.ID, entry.Quantity); err != nil {
		ss.logger.Warn("Failed to refresh stock cache", zap.Error(err))
	}

	event := &models.StockAdjustedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockAdjusted,
			Timestamp: time.Now(),
		},
		TenantID:   tenantID,
		VariantID:  variant.ID,
		LocationID: req.LocationID,
		Delta:      req.Quantity,
		Remaining:  entry.Quantity,
	}
	if err := ss.eventPublisher.PublishStockAdjusted(ctx, event); err != nil {
		ss.logger.Error("Failed to publish StockAdjusted event", zap.Error(err))
	}

	ss.logger.Info("Restocked",
		zap.Int64("tenant_id", tenantID),
		zap.Int64("variant_id", variant.ID),
		zap.Int64("location_id", req.LocationID),
		zap.Int("quantity", entry.Quantity))

	return entry, nil
}

// SetPrice updates the unit price of an existing stock entry. This is the
// only path that changes a price after the first restock set it.
func (ss *StockService) SetPrice(ctx context.Context, tenantID, variantID, locationID, priceCents int64) error {
	if priceCents < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return ss.store.SetStockPrice(ctx, tenantID, variantID, locationID, priceCents)
}

// syncAfterSale pushes post-commit quantity changes into the cache. Called
// by the sale service; failures only degrade the cache, never the sale.
func (ss *StockService) syncAfterSale(ctx context.Context, locationID int64, lines []models.SaleLineData) {
	for _, line := range lines {
		if err := ss.redis.InitStock(ctx, locationID, line.VariantID, line.Remaining); err != nil {
			ss.logger.Warn("Failed to sync stock cache after sale",
				zap.Int64("variant_id", line.VariantID),
				zap.Error(err))
		}
	}
}

// invalidateAfterVoid restores cached quantities after a void by applying
// positive deltas; cache misses are left cold until the next read seeds them.
func (ss *StockService) invalidateAfterVoid(ctx context.Context, locationID int64, items []models.SaleItem) {
	for _, item := range items {
		if _, _, err := ss.redis.ApplyStockDelta(ctx, locationID, item.VariantID, item.Quantity); err != nil {
			ss.logger.Warn("Failed to adjust stock cache after void",
				zap.Int64("variant_id", item.VariantID),
				zap.Error(err))
		}
	}
}
