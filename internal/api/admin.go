package api

import (
	"net/http"

	"pos-service/internal/models"
	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

type clientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

func (h *Handler) createClient(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	client := &models.Client{TenantID: tenantID, Name: req.Name, Email: req.Email}
	if err := h.accounts.CreateClient(c.Request.Context(), client); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) listClients(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	clients, err := h.accounts.ListClients(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (h *Handler) getClient(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	client, err := h.accounts.GetClient(c.Request.Context(), tenantID, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) updateClient(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	client := &models.Client{ID: clientID, TenantID: tenantID, Name: req.Name, Email: req.Email}
	if err := h.accounts.UpdateClient(c.Request.Context(), client); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) deleteClient(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.DeleteClient(c.Request.Context(), tenantID, clientID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) createEmployee(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.accounts.CreateEmployee(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) listEmployees(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	users, err := h.accounts.ListEmployees(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": users})
}

func (h *Handler) deleteEmployee(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.DeleteEmployee(c.Request.Context(), tenantID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) resetPassword(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), tenantID, userID, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password reset"})
}

type locationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

func (h *Handler) createLocation(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	loc := &models.Location{TenantID: tenantID, Name: req.Name, Address: req.Address}
	if err := h.accounts.CreateLocation(c.Request.Context(), loc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *Handler) listLocations(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	locations, err := h.accounts.ListLocations(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (h *Handler) deleteLocation(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	locationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.DeleteLocation(c.Request.Context(), tenantID, locationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// salesSummary returns the dashboard summary for a date range
func (h *Handler) salesSummary(c *gin.Context) {
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
		locationID = &id
	}

	report, err := h.reports.Summary(c.Request.Context(), tenantID, locationID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) createTenant(c *gin.Context) {
	var req service.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tenant, admin, err := h.accounts.CreateTenant(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tenant": tenant, "admin": admin})
}

func (h *Handler) getTenant(c *gin.Context) {
	tenantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.accounts.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *Handler) listTenants(c *gin.Context) {
	tenants, err := h.accounts.ListTenants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants})
}

func (h *Handler) deleteTenant(c *gin.Context) {
	tenantID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.DeleteTenant(c.Request.Context(), tenantID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
