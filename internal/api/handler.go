package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/service"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	accounts *service.AccountService
	catalog  *service.CatalogService
	stock    *service.StockService
	sales    *service.SaleService
	reports  *service.ReportService
	tokens   *auth.Manager
}

// NewHandler creates a new HTTP handler
func NewHandler(
	accounts *service.AccountService,
	catalog *service.CatalogService,
	stock *service.StockService,
	sales *service.SaleService,
	reports *service.ReportService,
	tokens *auth.Manager,
) *Handler {
	return &Handler{
		accounts: accounts,
		catalog:  catalog,
		stock:    stock,
		sales:    sales,
		reports:  reports,
		tokens:   tokens,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/login", h.login)

	v1 := router.Group("/api/v1")
	v1.Use(auth.Authenticate(h.tokens))
	{
		pos := v1.Group("/", auth.Require(auth.CapCommitSales))
		{
			pos.GET("/pos/resolve-variant", h.resolveVariant)
			pos.GET("/pos/availability", h.availability)
			pos.POST("/sales", h.commitSale)
			pos.GET("/sales", h.listSales)
			pos.GET("/sales/:id", h.getSale)
			pos.DELETE("/sales/:id", h.voidSale)
		}

		catalog := v1.Group("/", auth.Require(auth.CapManageCatalog))
		{
			catalog.POST("/products", h.createProduct)
			catalog.GET("/products", h.listProducts)
			catalog.GET("/products/:id", h.getProduct)
			catalog.DELETE("/products/:id", h.deleteProduct)
			catalog.POST("/products/:id/characteristics", h.addCharacteristic)
			catalog.GET("/products/:id/characteristics", h.listCharacteristics)
			catalog.GET("/products/:id/variants", h.listVariants)
			catalog.POST("/characteristics/:id/options", h.addOption)
			catalog.GET("/characteristics/:id/options", h.listOptions)
			catalog.GET("/variants/:id", h.getVariant)
		}

		stock := v1.Group("/", auth.Require(auth.CapManageStock))
		{
			stock.POST("/stock/restock", h.restock)
			stock.PUT("/stock/price", h.setStockPrice)
			stock.GET("/locations/:id/stock", h.locationStock)
		}

		clients := v1.Group("/", auth.Require(auth.CapManageClients))
		{
			clients.POST("/clients", h.createClient)
			clients.GET("/clients", h.listClients)
			clients.GET("/clients/:id", h.getClient)
			clients.PUT("/clients/:id", h.updateClient)
			clients.DELETE("/clients/:id", h.deleteClient)
		}

		staff := v1.Group("/", auth.Require(auth.CapManageStaff))
		{
			staff.POST("/employees", h.createEmployee)
			staff.GET("/employees", h.listEmployees)
			staff.DELETE("/employees/:id", h.deleteEmployee)
			staff.POST("/employees/:id/reset-password", h.resetPassword)
			staff.POST("/locations", h.createLocation)
			staff.GET("/locations", h.listLocations)
			staff.DELETE("/locations/:id", h.deleteLocation)
		}

		reports := v1.Group("/", auth.Require(auth.CapViewReports))
		{
			reports.GET("/reports/summary", h.salesSummary)
		}

		tenants := v1.Group("/", auth.Require(auth.CapManageTenants))
		{
			tenants.POST("/tenants", h.createTenant)
			tenants.GET("/tenants", h.listTenants)
			tenants.GET("/tenants/:id", h.getTenant)
			tenants.DELETE("/tenants/:id", h.deleteTenant)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// login verifies credentials and returns an access token
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// tenantFrom resolves the authenticated tenant or aborts with 403
func tenantFrom(c *gin.Context) (int64, bool) {
	tenantID, ok := auth.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant scope"})
	}
	return tenantID, ok
}

// pathID parses a path parameter as int64 or aborts with 400
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// queryID parses a query parameter as int64 or aborts with 400
func queryID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing " + name})
		return 0, false
	}
	return id, true
}

// parseIDList parses a comma-separated id list query parameter
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrZeroQty),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrOptionMismatch),
		errors.Is(err, service.ErrDuplicateOptions):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
