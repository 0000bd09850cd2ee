package models

import "time"

// Event types
const (
	EventTypeSaleCommitted = "SALE_COMMITTED"
	EventTypeSaleVoided    = "SALE_VOIDED"
	EventTypeStockAdjusted = "STOCK_ADJUSTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleLineData represents one sale line in events. Remaining carries the
// stock left at the line's location after the commit, for low-stock alerting.
type SaleLineData struct {
	VariantID      int64 `json:"variant_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	Remaining      int   `json:"remaining"`
}

// SaleCommittedEvent published after a sale transaction commits
type SaleCommittedEvent struct {
	BaseEvent
	SaleID     int64          `json:"sale_id"`
	TenantID   int64          `json:"tenant_id"`
	LocationID int64          `json:"location_id"`
	ClientID   *int64         `json:"client_id,omitempty"`
	TotalCents int64          `json:"total_cents"`
	Lines      []SaleLineData `json:"lines"`
}

// SaleVoidedEvent published after a sale is deleted and its effects reversed
type SaleVoidedEvent struct {
	BaseEvent
	SaleID     int64 `json:"sale_id"`
	TenantID   int64 `json:"tenant_id"`
	LocationID int64 `json:"location_id"`
	TotalCents int64 `json:"total_cents"`
}

// StockAdjustedEvent published after a restock or manual adjustment
type StockAdjustedEvent struct {
	BaseEvent
	TenantID   int64 `json:"tenant_id"`
	VariantID  int64 `json:"variant_id"`
	LocationID int64 `json:"location_id"`
	Delta      int   `json:"delta"`
	Remaining  int   `json:"remaining"`
}
