package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-service/internal/models"
)

// CommitSale persists a sale header, its line items, the conditional stock
// decrements and the client aggregate update as one transaction. Any failed
// step, including a line whose stock would go negative, rolls back the whole
// sale. The generated id and timestamp are written back into sale; the
// returned lines carry the remaining stock per line for event publishing.
func (s *Store) CommitSale(ctx context.Context, sale *models.Sale, items []models.SaleItem) ([]models.SaleLineData, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, sale, `
		INSERT INTO sales (tenant_id, location_id, client_id, subtotal_cents, discount_percent, total_cents, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, sold_at`,
		sale.TenantID, sale.LocationID, sale.ClientID,
		sale.SubtotalCents, sale.DiscountPercent, sale.TotalCents, sale.IdempotencyKey)
	if err != nil {
		// A concurrent retry with the same idempotency key loses the unique
		// race here; the caller re-reads the winner's sale.
		return nil, fmt.Errorf("failed to insert sale: %w", wrapUnique(err))
	}

	lines := make([]models.SaleLineData, 0, len(items))
	for i := range items {
		items[i].SaleID = sale.ID

		err = tx.GetContext(ctx, &items[i].ID, `
			INSERT INTO sale_items (sale_id, variant_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			items[i].SaleID, items[i].VariantID, items[i].Quantity, items[i].UnitPriceCents)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale item: %w", err)
		}

		remaining, err := decrementStock(ctx, tx, sale.TenantID, items[i].VariantID, sale.LocationID, items[i].Quantity)
		if err != nil {
			return nil, err
		}

		lines = append(lines, models.SaleLineData{
			VariantID:      items[i].VariantID,
			Quantity:       items[i].Quantity,
			UnitPriceCents: items[i].UnitPriceCents,
			Remaining:      remaining,
		})
	}

	if sale.ClientID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE clients
			SET purchase_count = purchase_count + 1,
			    total_spent_cents = total_spent_cents + $1
			WHERE tenant_id = $2 AND id = $3`,
			sale.TotalCents, sale.TenantID, *sale.ClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to update client aggregates: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return lines, nil
}

// VoidSale deletes a sale and reverses its effects in one transaction:
// stock added back, client aggregates decremented (clamped at zero), items
// and header removed. Returns the deleted sale and items for event
// publishing.
func (s *Store) VoidSale(ctx context.Context, tenantID, saleID int64) (*models.Sale, []models.SaleItem, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var sale models.Sale
	err = tx.GetContext(ctx, &sale,
		"SELECT * FROM sales WHERE tenant_id = $1 AND id = $2 FOR UPDATE", tenantID, saleID)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("sale %d: %w", saleID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	var items []models.SaleItem
	if err := tx.SelectContext(ctx, &items,
		"SELECT * FROM sale_items WHERE sale_id = $1", saleID); err != nil {
		return nil, nil, fmt.Errorf("failed to load sale items: %w", err)
	}

	for _, item := range items {
		if err := restoreStock(ctx, tx, tenantID, item.VariantID, sale.LocationID, item.Quantity); err != nil {
			return nil, nil, err
		}
	}

	if sale.ClientID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE clients
			SET purchase_count = GREATEST(purchase_count - 1, 0),
			    total_spent_cents = GREATEST(total_spent_cents - $1, 0)
			WHERE tenant_id = $2 AND id = $3`,
			sale.TotalCents, tenantID, *sale.ClientID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to reverse client aggregates: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM sale_items WHERE sale_id = $1", saleID); err != nil {
		return nil, nil, fmt.Errorf("failed to delete sale items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sales WHERE id = $1", saleID); err != nil {
		return nil, nil, fmt.Errorf("failed to delete sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &sale, items, nil
}

// GetSaleByID retrieves a sale scoped to a tenant
func (s *Store) GetSaleByID(ctx context.Context, tenantID, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale,
		"SELECT * FROM sales WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sale %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSaleByIdempotencyKey retrieves a sale by idempotency key, nil when none
func (s *Store) GetSaleByIdempotencyKey(ctx context.Context, tenantID int64, key string) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale,
		"SELECT * FROM sales WHERE tenant_id = $1 AND idempotency_key = $2", tenantID, key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSaleItems retrieves all items of a sale
func (s *Store) GetSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error) {
	var items []models.SaleItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM sale_items WHERE sale_id = $1", saleID)
	return items, err
}

// GetSales retrieves sales of a tenant within a time range, newest first.
// locationID narrows to one branch when non-nil.
func (s *Store) GetSales(ctx context.Context, tenantID int64, locationID *int64, from, to time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	if locationID != nil {
		err := s.db.SelectContext(ctx, &sales, `
			SELECT * FROM sales
			WHERE tenant_id = $1 AND location_id = $2 AND sold_at >= $3 AND sold_at < $4
			ORDER BY sold_at DESC`,
			tenantID, *locationID, from, to)
		return sales, err
	}
	err := s.db.SelectContext(ctx, &sales, `
		SELECT * FROM sales
		WHERE tenant_id = $1 AND sold_at >= $2 AND sold_at < $3
		ORDER BY sold_at DESC`,
		tenantID, from, to)
	return sales, err
}

// SalesSummary aggregates sales over a range
type SalesSummary struct {
	SaleCount    int64 `db:"sale_count" json:"sale_count"`
	RevenueCents int64 `db:"revenue_cents" json:"revenue_cents"`
}

// GetSalesSummary computes count and revenue over a time range
func (s *Store) GetSalesSummary(ctx context.Context, tenantID int64, locationID *int64, from, to time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	if locationID != nil {
		err := s.db.GetContext(ctx, &summary, `
			SELECT COUNT(*) AS sale_count, COALESCE(SUM(total_cents), 0) AS revenue_cents
			FROM sales
			WHERE tenant_id = $1 AND location_id = $2 AND sold_at >= $3 AND sold_at < $4`,
			tenantID, *locationID, from, to)
		return &summary, err
	}
	err := s.db.GetContext(ctx, &summary, `
		SELECT COUNT(*) AS sale_count, COALESCE(SUM(total_cents), 0) AS revenue_cents
		FROM sales
		WHERE tenant_id = $1 AND sold_at >= $2 AND sold_at < $3`,
		tenantID, from, to)
	return &summary, err
}

// TopVariant is one row of the best-sellers report
type TopVariant struct {
	VariantID    int64 `db:"variant_id" json:"variant_id"`
	QuantitySold int64 `db:"quantity_sold" json:"quantity_sold"`
}

// GetTopVariants returns the best-selling variants over a time range
func (s *Store) GetTopVariants(ctx context.Context, tenantID int64, from, to time.Time, limit int) ([]TopVariant, error) {
	var top []TopVariant
	err := s.db.SelectContext(ctx, &top, `
		SELECT si.variant_id AS variant_id, SUM(si.quantity) AS quantity_sold
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.tenant_id = $1 AND s.sold_at >= $2 AND s.sold_at < $3
		GROUP BY si.variant_id
		ORDER BY quantity_sold DESC
		LIMIT $4`,
		tenantID, from, to, limit)
	return top, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
