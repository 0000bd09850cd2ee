package service

import (
	"context"
	"testing"

	"pos-service/internal/util"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitSaleCountsStockAdjustmentPerLine(t *testing.T) {
	t.Skip("Integration test - requires database, Redis and Kafka")

	st, redis, publisher := integrationStack(t)
	catalog := NewCatalogService(st)
	stock := NewStockService(st, redis, catalog, publisher)
	sales := NewSaleService(st, stock, publisher)

	ctx := context.Background()

	first, err := stock.Restock(ctx, 1, &RestockRequest{
		ProductID: 1, LocationID: 1, Quantity: 10, PriceCents: 1000,
	})
	require.NoError(t, err)
	second, err := stock.Restock(ctx, 1, &RestockRequest{
		ProductID: 2, LocationID: 1, Quantity: 10, PriceCents: 2000,
	})
	require.NoError(t, err)

	before := testutil.ToFloat64(util.StockAdjustmentsTotal.WithLabelValues("out"))

	_, err = sales.CommitSale(ctx, 1, &CommitSaleRequest{
		LocationID: 1,
		Lines: []SaleLineRequest{
			{VariantID: first.VariantID, Quantity: 1},
			{VariantID: second.VariantID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	// One outbound adjustment per sold line, matching the restock path's
	// one-per-operation accounting.
	after := testutil.ToFloat64(util.StockAdjustmentsTotal.WithLabelValues("out"))
	assert.Equal(t, 2.0, after-before)
}
