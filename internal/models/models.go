package models

import "time"

// Tenant represents a business account owning its own catalog, locations,
// staff and sales.
type Tenant struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	OwnerEmail string    `db:"owner_email" json:"owner_email"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// User is an authenticated account. Superadmins have no tenant; employees
// additionally carry a sub-role and a home location.
type User struct {
	ID           int64     `db:"id" json:"id"`
	TenantID     *int64    `db:"tenant_id" json:"tenant_id,omitempty"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	SubRole      *string   `db:"sub_role" json:"sub_role,omitempty"`
	LocationID   *int64    `db:"location_id" json:"location_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Roles and employee sub-roles
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"

	SubRoleInventario = "inventario"
	SubRoleVentas     = "ventas"
)

// Location is a branch site of a tenant
type Location struct {
	ID       int64  `db:"id" json:"id"`
	TenantID int64  `db:"tenant_id" json:"tenant_id"`
	Name     string `db:"name" json:"name"`
	Address  string `db:"address" json:"address"`
}

// Product is a catalog item; its buyable configurations are Variants
type Product struct {
	ID        int64     `db:"id" json:"id"`
	TenantID  int64     `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Characteristic is a named attribute of a product ("Color", "Size")
type Characteristic struct {
	ID        int64  `db:"id" json:"id"`
	TenantID  int64  `db:"tenant_id" json:"tenant_id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
}

// CharacteristicOption is one allowed value of a characteristic ("Red")
type CharacteristicOption struct {
	ID               int64  `db:"id" json:"id"`
	TenantID         int64  `db:"tenant_id" json:"tenant_id"`
	CharacteristicID int64  `db:"characteristic_id" json:"characteristic_id"`
	Value            string `db:"value" json:"value"`
}

// Variant is one buyable configuration of a product, identified by the
// canonical sorted tuple of its option ids (OptionKey). A product with no
// characteristics has exactly one variant with an empty key.
type Variant struct {
	ID        int64     `db:"id" json:"id"`
	TenantID  int64     `db:"tenant_id" json:"tenant_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	OptionKey string    `db:"option_key" json:"option_key"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StockEntry is the quantity and unit price of one variant at one location.
// At most one row exists per (variant, location).
type StockEntry struct {
	ID             int64     `db:"id" json:"id"`
	TenantID       int64     `db:"tenant_id" json:"tenant_id"`
	VariantID      int64     `db:"variant_id" json:"variant_id"`
	LocationID     int64     `db:"location_id" json:"location_id"`
	Quantity       int       `db:"quantity" json:"quantity"`
	UnitPriceCents int64     `db:"unit_price_cents" json:"unit_price_cents"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Sale is a committed checkout transaction. Immutable once created; the
// void path deletes it and reverses its effects.
type Sale struct {
	ID              int64     `db:"id" json:"id"`
	TenantID        int64     `db:"tenant_id" json:"tenant_id"`
	LocationID      int64     `db:"location_id" json:"location_id"`
	ClientID        *int64    `db:"client_id" json:"client_id,omitempty"`
	SubtotalCents   int64     `db:"subtotal_cents" json:"subtotal_cents"`
	DiscountPercent int       `db:"discount_percent" json:"discount_percent"`
	TotalCents      int64     `db:"total_cents" json:"total_cents"`
	IdempotencyKey  string    `db:"idempotency_key" json:"idempotency_key,omitempty"`
	SoldAt          time.Time `db:"sold_at" json:"sold_at"`
}

// SaleItem is one line of a sale, priced at commit time
type SaleItem struct {
	ID             int64 `db:"id" json:"id"`
	SaleID         int64 `db:"sale_id" json:"sale_id"`
	VariantID      int64 `db:"variant_id" json:"variant_id"`
	Quantity       int   `db:"quantity" json:"quantity"`
	UnitPriceCents int64 `db:"unit_price_cents" json:"unit_price_cents"`
}

// Client is a customer record with running purchase aggregates, maintained
// inside the sale commit/void transactions
type Client struct {
	ID              int64     `db:"id" json:"id"`
	TenantID        int64     `db:"tenant_id" json:"tenant_id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	PurchaseCount   int       `db:"purchase_count" json:"purchase_count"`
	TotalSpentCents int64     `db:"total_spent_cents" json:"total_spent_cents"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// VariantAttribute is a resolved name/value pair for display ("Size"="M")
type VariantAttribute struct {
	Name  string `db:"name" json:"name"`
	Value string `db:"value" json:"value"`
}

// ProcessedEvent for worker idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
