package api

import (
	"net/http"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

// resolveVariant looks up the variant matching a product + option selection
func (h *Handler) resolveVariant(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	productID, ok := queryID(c, "product_id")
	if !ok {
		return
	}
	optionIDs, err := parseIDList(c.Query("option_ids"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option_ids"})
		return
	}

	variant, err := h.catalog.ResolveVariant(c.Request.Context(), tenantID, productID, optionIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	if variant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No variant for that option combination"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variant": variant})
}

// availability returns the quantity on hand for a variant at a location
func (h *Handler) availability(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	variantID, ok := queryID(c, "variant_id")
	if !ok {
		return
	}
	locationID, ok := queryID(c, "location_id")
	if !ok {
		return
	}
	if !auth.LocationAllowed(c, locationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Location not permitted"})
		return
	}

	qty, err := h.stock.Availability(c.Request.Context(), tenantID, variantID, locationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variant_id":  variantID,
		"location_id": locationID,
		"quantity":    qty,
	})
}

// commitSale handles checkout confirmation
func (h *Handler) commitSale(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req service.CommitSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	if !auth.LocationAllowed(c, req.LocationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Location not permitted"})
		return
	}

	resp, err := h.sales.CommitSale(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getSale handles get sale by ID
func (h *Handler) getSale(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	saleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sale, items, err := h.sales.GetSale(c.Request.Context(), tenantID, saleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sale": sale, "items": items})
}

// listSales lists sales in a time range, optionally for one location
func (h *Handler) listSales(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	from, to, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time range", "details": err.Error()})
		return
	}

	var locationID *int64
	if c.Query("location_id") != "" {
		id, ok := queryID(c, "location_id")
		if !ok {
			return
		}
		if !auth.LocationAllowed(c, id) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Location not permitted"})
			return
		}
		locationID = &id
	}

	sales, err := h.sales.ListSales(c.Request.Context(), tenantID, locationID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// voidSale deletes a sale and reverses its stock and client effects
func (h *Handler) voidSale(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	saleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.sales.VoidSale(c.Request.Context(), tenantID, saleID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "voided", "sale_id": saleID})
}

// parseRange reads from/to query params (RFC 3339), defaulting to the last
// 30 days
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
