// Package cart implements the cart and pricing engine on top of a
// persisted cart store.
package cart

import (
	"context"
	"fmt"
	"log/slog"

	"shopcart/domain"
)

// Engine owns all cart mutations. Every mutation re-reads the store,
// applies the change and writes the whole cart back before returning,
// so the persisted copy is the single source of truth between calls.
type Engine struct {
	store    domain.CartStore
	shipping float64
	logger   *slog.Logger
}

// NewEngine constructs an Engine. shipping is the flat rate added to
// every summary; the storefront default is 0.
func NewEngine(store domain.CartStore, shipping float64, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, shipping: shipping, logger: logger}
}

// Load returns the persisted cart. It never fails: a store read error
// degrades to an empty cart.
func (e *Engine) Load(ctx context.Context) domain.Cart {
	c, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("cart load failed, starting empty", "error", err)
		return domain.Cart{}
	}
	return c
}

// AddOrUpdate puts the product in the cart with the given quantity.
// Quantities below 1 clamp to 1. An existing entry for the same product
// has its quantity replaced (not summed) and its cached display fields
// refreshed from the catalog record; otherwise a new entry is appended,
// preserving insertion order.
func (e *Engine) AddOrUpdate(ctx context.Context, product domain.Product, quantity int) (domain.Cart, error) {
	if err := domain.ValidateProduct(product); err != nil {
		return e.Load(ctx), err
	}
	c := e.Load(ctx)
	entry := product.Entry(quantity)
	if i, ok := c.IndexOf(product.ID); ok {
		c.Entries[i] = entry
	} else {
		c.Entries = append(c.Entries, entry)
	}
	if err := e.store.Save(ctx, c); err != nil {
		return c, fmt.Errorf("persist cart: %w", err)
	}
	e.logger.Debug("cart entry upserted", "product_id", product.ID, "quantity", entry.Quantity)
	return c, nil
}

// Remove deletes the entry with the given product id. A missing id is a
// successful no-op.
func (e *Engine) Remove(ctx context.Context, productID string) (domain.Cart, error) {
	c := e.Load(ctx)
	i, ok := c.IndexOf(productID)
	if !ok {
		return c, nil
	}
	c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
	if err := e.store.Save(ctx, c); err != nil {
		return c, fmt.Errorf("persist cart: %w", err)
	}
	e.logger.Debug("cart entry removed", "product_id", productID)
	return c, nil
}

// UpdateQuantity sets the quantity of an existing entry, clamped to be
// at least 1. A missing id returns the unchanged cart together with an
// *EntryNotFoundError so callers can decide whether to surface it.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}
	c := e.Load(ctx)
	i, ok := c.IndexOf(productID)
	if !ok {
		return c, domain.NewEntryNotFoundError(productID)
	}
	c.Entries[i].Quantity = quantity
	if err := e.store.Save(ctx, c); err != nil {
		return c, fmt.Errorf("persist cart: %w", err)
	}
	e.logger.Debug("cart quantity updated", "product_id", productID, "quantity", quantity)
	return c, nil
}

// Summary recomputes the order summary from the persisted cart. The
// result is ephemeral and must not be cached across mutations.
func (e *Engine) Summary(ctx context.Context) domain.OrderSummary {
	return domain.ComputeSummary(e.Load(ctx), e.shipping)
}

// Clear resets the persisted cart to empty. Idempotent.
func (e *Engine) Clear(ctx context.Context) error {
	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	e.logger.Debug("cart cleared")
	return nil
}
