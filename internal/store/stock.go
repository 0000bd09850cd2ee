package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetStockEntry retrieves stock for a (variant, location) pair. Returns nil
// without error when no entry exists yet (zero stock, price unset).
func (s *Store) GetStockEntry(ctx context.Context, tenantID, variantID, locationID int64) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := s.db.GetContext(ctx, &entry,
		"SELECT * FROM stock_entries WHERE tenant_id = $1 AND variant_id = $2 AND location_id = $3",
		tenantID, variantID, locationID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetStockByLocation retrieves all stock entries at a location
func (s *Store) GetStockByLocation(ctx context.Context, tenantID, locationID int64) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM stock_entries WHERE tenant_id = $1 AND location_id = $2 ORDER BY variant_id",
		tenantID, locationID)
	return entries, err
}

// Restock adds quantity to a (variant, location) entry, creating it with the
// supplied price when absent. On an existing row the stored price is left
// untouched: the first price entered wins, price changes go through
// SetStockPrice. The upserted row is written back into entry.
func (s *Store) Restock(ctx context.Context, entry *models.StockEntry) error {
	query := `
		INSERT INTO stock_entries (tenant_id, variant_id, location_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (variant_id, location_id) DO UPDATE
		SET quantity = stock_entries.quantity + EXCLUDED.quantity,
		    updated_at = NOW()
		RETURNING id, tenant_id, variant_id, location_id, quantity, unit_price_cents, updated_at`

	return s.db.GetContext(ctx, entry, query,
		entry.TenantID, entry.VariantID, entry.LocationID, entry.Quantity, entry.UnitPriceCents)
}

// SetStockPrice updates the unit price of an existing stock entry
func (s *Store) SetStockPrice(ctx context.Context, tenantID, variantID, locationID, priceCents int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE stock_entries SET unit_price_cents = $1, updated_at = NOW() WHERE tenant_id = $2 AND variant_id = $3 AND location_id = $4",
		priceCents, tenantID, variantID, locationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("stock entry for variant %d at location %d: %w", variantID, locationID, ErrNotFound)
	}
	return nil
}

// decrementStock applies a conditional decrement inside an open transaction
// and returns the remaining quantity. The WHERE quantity >= $n guard is what
// prevents overselling: zero rows updated means insufficient stock and the
// caller must roll back.
func decrementStock(ctx context.Context, tx *sqlx.Tx, tenantID, variantID, locationID int64, quantity int) (int, error) {
	var remaining int
	err := tx.GetContext(ctx, &remaining, `
		UPDATE stock_entries
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE tenant_id = $2 AND variant_id = $3 AND location_id = $4 AND quantity >= $1
		RETURNING quantity`,
		quantity, tenantID, variantID, locationID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("variant %d at location %d: %w", variantID, locationID, ErrInsufficientStock)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}
	return remaining, nil
}

// restoreStock adds quantity back inside an open transaction (void path)
func restoreStock(ctx context.Context, tx *sqlx.Tx, tenantID, variantID, locationID int64, quantity int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE stock_entries
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE tenant_id = $2 AND variant_id = $3 AND location_id = $4`,
		quantity, tenantID, variantID, locationID)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("stock entry for variant %d at location %d: %w", variantID, locationID, ErrNotFound)
	}
	return nil
}
