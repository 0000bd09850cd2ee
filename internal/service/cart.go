package service

import "errors"

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrOutOfStock  = errors.New("out of stock")
	ErrZeroQty     = errors.New("quantity must be positive")
	ErrVariantGone = errors.New("variant not in cart")
)

// CartLine is one (variant, quantity) pair priced from the stock ledger
type CartLine struct {
	VariantID      int64
	Quantity       int
	UnitPriceCents int64
	Available      int
}

// Cart accumulates checkout lines keyed by variant. Quantities are clamped
// to available stock on add; re-adding a variant overwrites its quantity
// with the newly selected one.
type Cart struct {
	lines map[int64]*CartLine
	order []int64
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{lines: make(map[int64]*CartLine)}
}

// Add puts a variant line into the cart. The requested quantity is clamped
// to [1, available]; a variant with nothing available cannot be added.
func (c *Cart) Add(variantID int64, requestedQty, available int, unitPriceCents int64) (*CartLine, error) {
	if requestedQty <= 0 {
		return nil, ErrZeroQty
	}
	if available <= 0 {
		return nil, ErrOutOfStock
	}

	qty := requestedQty
	if qty > available {
		qty = available
	}

	line, ok := c.lines[variantID]
	if !ok {
		line = &CartLine{VariantID: variantID}
		c.lines[variantID] = line
		c.order = append(c.order, variantID)
	}
	line.Quantity = qty
	line.Available = available
	line.UnitPriceCents = unitPriceCents
	return line, nil
}

// Remove deletes a variant line from the cart
func (c *Cart) Remove(variantID int64) error {
	if _, ok := c.lines[variantID]; !ok {
		return ErrVariantGone
	}
	delete(c.lines, variantID)
	for i, id := range c.order {
		if id == variantID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Lines returns the cart lines in insertion order
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c.lines))
	for _, id := range c.order {
		lines = append(lines, *c.lines[id])
	}
	return lines
}

// Empty reports whether the cart has no lines
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// CartTotals are the derived money amounts of a cart
type CartTotals struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// Totals computes subtotal, discount amount and total. The total never goes
// below zero whatever discount percent the operator entered.
func (c *Cart) Totals(discountPercent int) CartTotals {
	var subtotal int64
	for _, id := range c.order {
		line := c.lines[id]
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}

	discount := subtotal * int64(discountPercent) / 100
	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	return CartTotals{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    total,
	}
}
