package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateProduct creates a new product for a tenant
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (tenant_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, product, query, product.TenantID, product.Name)
}

// GetProductByID retrieves a product scoped to a tenant
func (s *Store) GetProductByID(ctx context.Context, tenantID, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves all products of a tenant
func (s *Store) GetProducts(ctx context.Context, tenantID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE tenant_id = $1 ORDER BY id", tenantID)
	return products, err
}

// DeleteProduct deletes a product and everything hanging off it (cascades
// cover characteristics, options, variants and stock entries)
func (s *Store) DeleteProduct(ctx context.Context, tenantID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM products WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateCharacteristic creates a named attribute on a product
func (s *Store) CreateCharacteristic(ctx context.Context, ch *models.Characteristic) error {
	query := `
		INSERT INTO characteristics (tenant_id, product_id, name)
		VALUES ($1, $2, $3)
		RETURNING id`

	return s.db.GetContext(ctx, &ch.ID, query, ch.TenantID, ch.ProductID, ch.Name)
}

// GetCharacteristicsByProduct retrieves all characteristics of a product
func (s *Store) GetCharacteristicsByProduct(ctx context.Context, tenantID, productID int64) ([]models.Characteristic, error) {
	var chars []models.Characteristic
	err := s.db.SelectContext(ctx, &chars,
		"SELECT * FROM characteristics WHERE tenant_id = $1 AND product_id = $2 ORDER BY id",
		tenantID, productID)
	return chars, err
}

// CreateOption creates an allowed value for a characteristic
func (s *Store) CreateOption(ctx context.Context, opt *models.CharacteristicOption) error {
	query := `
		INSERT INTO characteristic_options (tenant_id, characteristic_id, value)
		VALUES ($1, $2, $3)
		RETURNING id`

	return s.db.GetContext(ctx, &opt.ID, query, opt.TenantID, opt.CharacteristicID, opt.Value)
}

// GetOptionsByCharacteristic retrieves all options of a characteristic
func (s *Store) GetOptionsByCharacteristic(ctx context.Context, tenantID, characteristicID int64) ([]models.CharacteristicOption, error) {
	var opts []models.CharacteristicOption
	err := s.db.SelectContext(ctx, &opts,
		"SELECT * FROM characteristic_options WHERE tenant_id = $1 AND characteristic_id = $2 ORDER BY id",
		tenantID, characteristicID)
	return opts, err
}

// GetOptionsByIDs retrieves multiple options by id
func (s *Store) GetOptionsByIDs(ctx context.Context, tenantID int64, ids []int64) ([]models.CharacteristicOption, error) {
	if len(ids) == 0 {
		return []models.CharacteristicOption{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM characteristic_options WHERE tenant_id = ? AND id IN (?)", tenantID, ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var opts []models.CharacteristicOption
	err = s.db.SelectContext(ctx, &opts, query, args...)
	return opts, err
}

// ResolveVariant looks up the variant of a product matching a canonical
// option key. Returns nil without error when no variant matches yet.
func (s *Store) ResolveVariant(ctx context.Context, tenantID, productID int64, optionKey string) (*models.Variant, error) {
	var variant models.Variant
	err := s.db.GetContext(ctx, &variant,
		"SELECT * FROM variants WHERE tenant_id = $1 AND product_id = $2 AND option_key = $3",
		tenantID, productID, optionKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// EnsureVariant inserts the variant for an option key if absent and returns
// it either way. The conditional insert on (product_id, option_key) makes
// concurrent calls converge on a single row; link rows are written in the
// same transaction so a lost race leaves no orphans.
func (s *Store) EnsureVariant(ctx context.Context, tenantID, productID int64, optionKey string, optionIDs []int64) (*models.Variant, bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var variant models.Variant
	err = tx.GetContext(ctx, &variant, `
		INSERT INTO variants (tenant_id, product_id, option_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, option_key) DO NOTHING
		RETURNING id, tenant_id, product_id, option_key, created_at`,
		tenantID, productID, optionKey)

	if err == sql.ErrNoRows {
		// Lost the race or the variant already existed.
		err = tx.GetContext(ctx, &variant,
			"SELECT * FROM variants WHERE tenant_id = $1 AND product_id = $2 AND option_key = $3",
			tenantID, productID, optionKey)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load existing variant: %w", err)
		}
		return &variant, false, tx.Commit()
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert variant: %w", err)
	}

	for _, optionID := range optionIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO variant_options (variant_id, option_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			variant.ID, optionID); err != nil {
			return nil, false, fmt.Errorf("failed to link option %d: %w", optionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return &variant, true, nil
}

// GetVariantByID retrieves a variant scoped to a tenant
func (s *Store) GetVariantByID(ctx context.Context, tenantID, id int64) (*models.Variant, error) {
	var variant models.Variant
	err := s.db.GetContext(ctx, &variant,
		"SELECT * FROM variants WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("variant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// GetVariantsByProduct retrieves all variants of a product
func (s *Store) GetVariantsByProduct(ctx context.Context, tenantID, productID int64) ([]models.Variant, error) {
	var variants []models.Variant
	err := s.db.SelectContext(ctx, &variants,
		"SELECT * FROM variants WHERE tenant_id = $1 AND product_id = $2 ORDER BY id",
		tenantID, productID)
	return variants, err
}

// GetVariantAttributes resolves the display name/value pairs of a variant's
// selected options
func (s *Store) GetVariantAttributes(ctx context.Context, tenantID, variantID int64) ([]models.VariantAttribute, error) {
	var attrs []models.VariantAttribute
	err := s.db.SelectContext(ctx, &attrs, `
		SELECT c.name AS name, o.value AS value
		FROM variant_options vo
		JOIN characteristic_options o ON o.id = vo.option_id
		JOIN characteristics c ON c.id = o.characteristic_id
		WHERE vo.variant_id = $1 AND c.tenant_id = $2
		ORDER BY c.name`,
		variantID, tenantID)
	return attrs, err
}
