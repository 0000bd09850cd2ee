package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-service/internal/models"
)

// CreateTenant creates a business account (superadmin only)
func (s *Store) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (name, owner_email)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, tenant, query, tenant.Name, tenant.OwnerEmail)
}

// GetTenants retrieves all tenants
func (s *Store) GetTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.db.SelectContext(ctx, &tenants, "SELECT * FROM tenants ORDER BY id")
	return tenants, err
}

// GetTenantByID retrieves a tenant
func (s *Store) GetTenantByID(ctx context.Context, id int64) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.GetContext(ctx, &tenant, "SELECT * FROM tenants WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tenant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// DeleteTenant deletes a business and, through cascades, everything it owns
func (s *Store) DeleteTenant(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tenants WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tenant %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateUser creates an account (admin or employee)
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (tenant_id, email, password_hash, role, sub_role, location_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, user, query,
		user.TenantID, user.Email, user.PasswordHash, user.Role, user.SubRole, user.LocationID)
	return wrapUnique(err)
}

// GetUserByEmail retrieves a user for login
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetEmployees retrieves all employee accounts of a tenant
func (s *Store) GetEmployees(ctx context.Context, tenantID int64) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM users WHERE tenant_id = $1 AND role = $2 ORDER BY id",
		tenantID, models.RoleEmployee)
	return users, err
}

// UpdateUserPassword replaces a user's password hash
func (s *Store) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// DeleteUser deletes an account scoped to a tenant
func (s *Store) DeleteUser(ctx context.Context, tenantID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM users WHERE tenant_id = $1 AND id = $2", tenantID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// CreateLocation creates a branch site
func (s *Store) CreateLocation(ctx context.Context, loc *models.Location) error {
	query := `
		INSERT INTO locations (tenant_id, name, address)
		VALUES ($1, $2, $3)
		RETURNING id`

	return s.db.GetContext(ctx, &loc.ID, query, loc.TenantID, loc.Name, loc.Address)
}

// GetLocations retrieves all locations of a tenant
func (s *Store) GetLocations(ctx context.Context, tenantID int64) ([]models.Location, error) {
	var locations []models.Location
	err := s.db.SelectContext(ctx, &locations,
		"SELECT * FROM locations WHERE tenant_id = $1 ORDER BY id", tenantID)
	return locations, err
}

// GetLocationByID retrieves a location scoped to a tenant
func (s *Store) GetLocationByID(ctx context.Context, tenantID, id int64) (*models.Location, error) {
	var loc models.Location
	err := s.db.GetContext(ctx, &loc,
		"SELECT * FROM locations WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// DeleteLocation deletes a branch site
func (s *Store) DeleteLocation(ctx context.Context, tenantID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM locations WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("location %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateClient creates a customer record
func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (tenant_id, name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, client, query, client.TenantID, client.Name, client.Email)
}

// GetClients retrieves all clients of a tenant
func (s *Store) GetClients(ctx context.Context, tenantID int64) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.SelectContext(ctx, &clients,
		"SELECT * FROM clients WHERE tenant_id = $1 ORDER BY id", tenantID)
	return clients, err
}

// GetClientByID retrieves a client scoped to a tenant
func (s *Store) GetClientByID(ctx context.Context, tenantID, id int64) (*models.Client, error) {
	var client models.Client
	err := s.db.GetContext(ctx, &client,
		"SELECT * FROM clients WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient updates a client's contact fields
func (s *Store) UpdateClient(ctx context.Context, client *models.Client) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE clients SET name = $1, email = $2 WHERE tenant_id = $3 AND id = $4",
		client.Name, client.Email, client.TenantID, client.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %d: %w", client.ID, ErrNotFound)
	}
	return nil
}

// DeleteClient deletes a customer record
func (s *Store) DeleteClient(ctx context.Context, tenantID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM clients WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	return nil
}
