package service

import (
	"context"
	"errors"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

var (
	ErrOptionMismatch   = errors.New("option does not belong to product")
	ErrDuplicateOptions = errors.New("multiple options selected for one characteristic")
)

// CatalogService handles products, their characteristics/options and
// variant resolution
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.NamedLogger("catalog"),
	}
}

// CreateProduct creates a product for a tenant
func (cs *CatalogService) CreateProduct(ctx context.Context, tenantID int64, name string) (*models.Product, error) {
	product := &models.Product{TenantID: tenantID, Name: name}
	if err := cs.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	cs.logger.Info("Product created",
		zap.Int64("tenant_id", tenantID),
		zap.Int64("product_id", product.ID))
	return product, nil
}

// ListProducts retrieves all products of a tenant
func (cs *CatalogService) ListProducts(ctx context.Context, tenantID int64) ([]models.Product, error) {
	return cs.store.GetProducts(ctx, tenantID)
}

// GetProduct retrieves one product
func (cs *CatalogService) GetProduct(ctx context.Context, tenantID, productID int64) (*models.Product, error) {
	return cs.store.GetProductByID(ctx, tenantID, productID)
}

// DeleteProduct removes a product and its dependent rows
func (cs *CatalogService) DeleteProduct(ctx context.Context, tenantID, productID int64) error {
	cs.logger.Warn("Deleting product",
		zap.Int64("tenant_id", tenantID),
		zap.Int64("product_id", productID))
	return cs.store.DeleteProduct(ctx, tenantID, productID)
}

// ListCharacteristics retrieves the characteristics of a product
func (cs *CatalogService) ListCharacteristics(ctx context.Context, tenantID, productID int64) ([]models.Characteristic, error) {
	return cs.store.GetCharacteristicsByProduct(ctx, tenantID, productID)
}

// ListOptions retrieves the options of a characteristic
func (cs *CatalogService) ListOptions(ctx context.Context, tenantID, characteristicID int64) ([]models.CharacteristicOption, error) {
	return cs.store.GetOptionsByCharacteristic(ctx, tenantID, characteristicID)
}

// ListVariants retrieves the variants of a product
func (cs *CatalogService) ListVariants(ctx context.Context, tenantID, productID int64) ([]models.Variant, error) {
	return cs.store.GetVariantsByProduct(ctx, tenantID, productID)
}

// AddCharacteristic adds a named attribute to a product
func (cs *CatalogService) AddCharacteristic(ctx context.Context, tenantID, productID int64, name string) (*models.Characteristic, error) {
	if _, err := cs.store.GetProductByID(ctx, tenantID, productID); err != nil {
		return nil, err
	}
	ch := &models.Characteristic{TenantID: tenantID, ProductID: productID, Name: name}
	if err := cs.store.CreateCharacteristic(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to create characteristic: %w", err)
	}
	return ch, nil
}

// AddOption adds an allowed value to a characteristic
func (cs *CatalogService) AddOption(ctx context.Context, tenantID, characteristicID int64, value string) (*models.CharacteristicOption, error) {
	opt := &models.CharacteristicOption{TenantID: tenantID, CharacteristicID: characteristicID, Value: value}
	if err := cs.store.CreateOption(ctx, opt); err != nil {
		return nil, fmt.Errorf("failed to create option: %w", err)
	}
	return opt, nil
}

// ResolveVariant finds the variant of a product matching an option set.
// Returns nil when no variant exists for that combination yet.
func (cs *CatalogService) ResolveVariant(ctx context.Context, tenantID, productID int64, optionIDs []int64) (*models.Variant, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ResolveVariant")
	defer span.End()

	return cs.store.ResolveVariant(ctx, tenantID, productID, models.OptionKey(optionIDs))
}

// EnsureVariant resolves a variant, creating it when absent. The option set
// is validated against the product's characteristics first: every option
// must belong to one of them and no characteristic may appear twice.
// Repeated calls with the same option set converge on one variant.
func (cs *CatalogService) EnsureVariant(ctx context.Context, tenantID, productID int64, optionIDs []int64) (*models.Variant, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.EnsureVariant")
	defer span.End()

	if err := cs.validateOptionSet(ctx, tenantID, productID, optionIDs); err != nil {
		return nil, err
	}

	variant, created, err := cs.store.EnsureVariant(ctx, tenantID, productID, models.OptionKey(optionIDs), optionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure variant: %w", err)
	}
	if created {
		util.VariantsCreatedTotal.Inc()
		cs.logger.Info("Variant created",
			zap.Int64("tenant_id", tenantID),
			zap.Int64("product_id", productID),
			zap.Int64("variant_id", variant.ID))
	}
	return variant, nil
}

// validateOptionSet checks that every option belongs to a characteristic of
// the product and that at most one option per characteristic was selected
func (cs *CatalogService) validateOptionSet(ctx context.Context, tenantID, productID int64, optionIDs []int64) error {
	if _, err := cs.store.GetProductByID(ctx, tenantID, productID); err != nil {
		return err
	}
	if len(optionIDs) == 0 {
		return nil
	}

	unique := make(map[int64]struct{}, len(optionIDs))
	ids := make([]int64, 0, len(optionIDs))
	for _, id := range optionIDs {
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		ids = append(ids, id)
	}

	opts, err := cs.store.GetOptionsByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	if len(opts) != len(ids) {
		return fmt.Errorf("some options: %w", store.ErrNotFound)
	}

	chars, err := cs.store.GetCharacteristicsByProduct(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	productChars := make(map[int64]struct{}, len(chars))
	for _, ch := range chars {
		productChars[ch.ID] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(opts))
	for _, opt := range opts {
		if _, ok := productChars[opt.CharacteristicID]; !ok {
			return fmt.Errorf("option %d: %w", opt.ID, ErrOptionMismatch)
		}
		if _, ok := seen[opt.CharacteristicID]; ok {
			return fmt.Errorf("characteristic %d: %w", opt.CharacteristicID, ErrDuplicateOptions)
		}
		seen[opt.CharacteristicID] = struct{}{}
	}
	return nil
}

// VariantDetail is a variant with its resolved attribute pairs
type VariantDetail struct {
	Variant    *models.Variant           `json:"variant"`
	Attributes []models.VariantAttribute `json:"attributes"`
}

// GetVariantDetail retrieves a variant and its attribute name/value pairs
func (cs *CatalogService) GetVariantDetail(ctx context.Context, tenantID, variantID int64) (*VariantDetail, error) {
	variant, err := cs.store.GetVariantByID(ctx, tenantID, variantID)
	if err != nil {
		return nil, err
	}
	attrs, err := cs.store.GetVariantAttributes(ctx, tenantID, variantID)
	if err != nil {
		return nil, err
	}
	return &VariantDetail{Variant: variant, Attributes: attrs}, nil
}
