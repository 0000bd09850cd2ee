package api

import (
	"net/http"

	"pos-service/internal/auth"
	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) createProduct(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), tenantID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) listProducts(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), tenantID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type addCharacteristicRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) addCharacteristic(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addCharacteristicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ch, err := h.catalog.AddCharacteristic(c.Request.Context(), tenantID, productID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) listCharacteristics(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	chars, err := h.catalog.ListCharacteristics(c.Request.Context(), tenantID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characteristics": chars})
}

type addOptionRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *Handler) addOption(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	characteristicID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	opt, err := h.catalog.AddOption(c.Request.Context(), tenantID, characteristicID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, opt)
}

func (h *Handler) listOptions(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	characteristicID, ok := pathID(c, "id")
	if !ok {
		return
	}

	opts, err := h.catalog.ListOptions(c.Request.Context(), tenantID, characteristicID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": opts})
}

func (h *Handler) listVariants(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	variants, err := h.catalog.ListVariants(c.Request.Context(), tenantID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variants": variants})
}

func (h *Handler) getVariant(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	variantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.catalog.GetVariantDetail(c.Request.Context(), tenantID, variantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// restock adds stock for a product configuration at a location
func (h *Handler) restock(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req service.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !auth.LocationAllowed(c, req.LocationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Location not permitted"})
		return
	}

	entry, err := h.stock.Restock(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type setPriceRequest struct {
	VariantID  int64 `json:"variant_id" binding:"required"`
	LocationID int64 `json:"location_id" binding:"required"`
	PriceCents int64 `json:"price_cents" binding:"min=0"`
}

// setStockPrice updates the unit price of an existing stock entry
func (h *Handler) setStockPrice(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !auth.LocationAllowed(c, req.LocationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Location not permitted"})
		return
	}

	if err := h.stock.SetPrice(c.Request.Context(), tenantID, req.VariantID, req.LocationID, req.PriceCents); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// locationStock lists all stock entries at a branch
func (h *Handler) locationStock(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	locationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !auth.LocationAllowed(c, locationID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Location not permitted"})
		return
	}

	entries, err := h.stock.LocationStock(c.Request.Context(), tenantID, locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": entries})
}
