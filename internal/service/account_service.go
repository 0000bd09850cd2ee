package service

import (
	"context"
	"errors"
	"fmt"

	"pos-service/internal/auth"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

var ErrBadCredentials = errors.New("invalid email or password")

// AccountService handles login and account administration: employee and
// admin creation, password resets, tenant provisioning.
type AccountService struct {
	store  *store.Store
	tokens *auth.Manager
	logger *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store *store.Store, tokens *auth.Manager) *AccountService {
	return &AccountService{
		store:  store,
		tokens: tokens,
		logger: util.NamedLogger("accounts"),
	}
}

// Login verifies credentials and issues an access token
func (as *AccountService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := as.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		as.logger.Warn("Failed login", zap.String("email", email))
		return "", nil, ErrBadCredentials
	}

	token, err := as.tokens.IssueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	as.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role))
	return token, user, nil
}

// CreateEmployeeRequest creates a location-scoped staff account
type CreateEmployeeRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	SubRole    string `json:"sub_role" binding:"required,oneof=inventario ventas"`
	LocationID int64  `json:"location_id" binding:"required"`
}

// CreateEmployee creates an employee account within a tenant
func (as *AccountService) CreateEmployee(ctx context.Context, tenantID int64, req *CreateEmployeeRequest) (*models.User, error) {
	if _, err := as.store.GetLocationByID(ctx, tenantID, req.LocationID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		TenantID:     &tenantID,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleEmployee,
		SubRole:      &req.SubRole,
		LocationID:   &req.LocationID,
	}
	if err := as.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	as.logger.Info("Employee created",
		zap.Int64("tenant_id", tenantID),
		zap.Int64("user_id", user.ID),
		zap.String("sub_role", req.SubRole))
	return user, nil
}

// ListEmployees lists the employee accounts of a tenant
func (as *AccountService) ListEmployees(ctx context.Context, tenantID int64) ([]models.User, error) {
	return as.store.GetEmployees(ctx, tenantID)
}

// DeleteEmployee removes a staff account
func (as *AccountService) DeleteEmployee(ctx context.Context, tenantID, userID int64) error {
	return as.store.DeleteUser(ctx, tenantID, userID)
}

// ResetPassword replaces an account's password
func (as *AccountService) ResetPassword(ctx context.Context, tenantID, userID int64, newPassword string) error {
	user, err := as.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TenantID == nil || *user.TenantID != tenantID {
		return fmt.Errorf("user %d: %w", userID, store.ErrNotFound)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return as.store.UpdateUserPassword(ctx, userID, hash)
}

// CreateLocation creates a branch site
func (as *AccountService) CreateLocation(ctx context.Context, loc *models.Location) error {
	return as.store.CreateLocation(ctx, loc)
}

// ListLocations lists the branch sites of a tenant
func (as *AccountService) ListLocations(ctx context.Context, tenantID int64) ([]models.Location, error) {
	return as.store.GetLocations(ctx, tenantID)
}

// DeleteLocation removes a branch site
func (as *AccountService) DeleteLocation(ctx context.Context, tenantID, locationID int64) error {
	return as.store.DeleteLocation(ctx, tenantID, locationID)
}

// CreateClient creates a customer record
func (as *AccountService) CreateClient(ctx context.Context, client *models.Client) error {
	return as.store.CreateClient(ctx, client)
}

// ListClients lists the customers of a tenant
func (as *AccountService) ListClients(ctx context.Context, tenantID int64) ([]models.Client, error) {
	return as.store.GetClients(ctx, tenantID)
}

// GetClient retrieves a customer with their purchase aggregates
func (as *AccountService) GetClient(ctx context.Context, tenantID, clientID int64) (*models.Client, error) {
	return as.store.GetClientByID(ctx, tenantID, clientID)
}

// UpdateClient updates a customer's contact fields
func (as *AccountService) UpdateClient(ctx context.Context, client *models.Client) error {
	return as.store.UpdateClient(ctx, client)
}

// DeleteClient removes a customer record
func (as *AccountService) DeleteClient(ctx context.Context, tenantID, clientID int64) error {
	return as.store.DeleteClient(ctx, tenantID, clientID)
}

// CreateTenantRequest provisions a business with its first admin account
type CreateTenantRequest struct {
	Name          string `json:"name" binding:"required"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// CreateTenant provisions a business and its admin account (superadmin only)
func (as *AccountService) CreateTenant(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, *models.User, error) {
	tenant := &models.Tenant{Name: req.Name, OwnerEmail: req.AdminEmail}
	if err := as.store.CreateTenant(ctx, tenant); err != nil {
		return nil, nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	hash, err := auth.HashPassword(req.AdminPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		TenantID:     &tenant.ID,
		Email:        req.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := as.store.CreateUser(ctx, admin); err != nil {
		// Best effort cleanup; the tenant row is useless without its admin.
		if delErr := as.store.DeleteTenant(ctx, tenant.ID); delErr != nil {
			as.logger.Error("Failed to clean up tenant after admin creation failure",
				zap.Int64("tenant_id", tenant.ID),
				zap.Error(delErr))
		}
		return nil, nil, fmt.Errorf("failed to create admin account: %w", err)
	}

	as.logger.Info("Tenant provisioned",
		zap.Int64("tenant_id", tenant.ID),
		zap.String("name", tenant.Name))
	return tenant, admin, nil
}

// GetTenant retrieves a business (superadmin only)
func (as *AccountService) GetTenant(ctx context.Context, tenantID int64) (*models.Tenant, error) {
	return as.store.GetTenantByID(ctx, tenantID)
}

// ListTenants lists all businesses (superadmin only)
func (as *AccountService) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return as.store.GetTenants(ctx)
}

// DeleteTenant removes a business and everything it owns (superadmin only)
func (as *AccountService) DeleteTenant(ctx context.Context, tenantID int64) error {
	as.logger.Warn("Deleting tenant", zap.Int64("tenant_id", tenantID))
	return as.store.DeleteTenant(ctx, tenantID)
}
