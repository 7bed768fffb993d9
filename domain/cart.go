// Package domain defines core business types and interfaces.
package domain

import "context"

// GalleryImage is one image reference cached from the catalog record.
type GalleryImage struct {
	URL string `json:"url"`
}

// CartEntry represents a single product-and-quantity line in the cart.
// The JSON field names match the persisted cart contract of deployed
// storefronts, so previously stored carts keep loading across versions.
type CartEntry struct {
	ProductID       string         `json:"_id"`
	Title           string         `json:"title"`
	UnitPrice       float64        `json:"price"`
	DiscountPercent float64        `json:"discount"`
	Quantity        int            `json:"quantity"`
	Gallery         []GalleryImage `json:"gallery"`
}

// ImageURL returns the first cached gallery URL, or "" when the entry
// has no images.
func (e CartEntry) ImageURL() string {
	if len(e.Gallery) == 0 {
		return ""
	}
	return e.Gallery[0].URL
}

// Cart is an ordered sequence of entries. Insertion order is the order
// products were first added and stays stable for display.
type Cart struct {
	Entries []CartEntry
}

// IndexOf returns the position of the entry with the given product id.
func (c Cart) IndexOf(productID string) (int, bool) {
	for i, e := range c.Entries {
		if e.ProductID == productID {
			return i, true
		}
	}
	return 0, false
}

// Find returns the entry with the given product id.
func (c Cart) Find(productID string) (CartEntry, bool) {
	i, ok := c.IndexOf(productID)
	if !ok {
		return CartEntry{}, false
	}
	return c.Entries[i], true
}

// ItemCount is the sum of all entry quantities (the cart badge number).
func (c Cart) ItemCount() int {
	n := 0
	for _, e := range c.Entries {
		n += e.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no entries.
func (c Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

// Product is a catalog record as returned by the product API.
type Product struct {
	ID           string         `json:"_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	Discount     float64        `json:"discount"`
	CountInStock int            `json:"countInStock"`
	Gallery      []GalleryImage `json:"gallery"`
}

// Entry snapshots the product into a cart line with the given quantity.
// Quantities below 1 clamp to 1.
func (p Product) Entry(quantity int) CartEntry {
	if quantity < 1 {
		quantity = 1
	}
	return CartEntry{
		ProductID:       p.ID,
		Title:           p.Title,
		UnitPrice:       p.Price,
		DiscountPercent: p.Discount,
		Quantity:        quantity,
		Gallery:         p.Gallery,
	}
}

// ValidateProduct checks the fields a cart snapshot depends on.
func ValidateProduct(p Product) error {
	if p.ID == "" {
		return NewInvalidProductError("id", "cannot be empty", p.ID)
	}
	if p.Price < 0 {
		return NewInvalidProductError("price", "must be non-negative", p.Price)
	}
	if p.Discount < 0 || p.Discount > 100 {
		return NewInvalidProductError("discount", "must be between 0 and 100", p.Discount)
	}
	return nil
}

// NormalizeEntries sanitizes entries read from storage: entries without
// a product id are dropped, duplicate ids keep the first occurrence and
// quantities below 1 clamp to 1.
func NormalizeEntries(entries []CartEntry) []CartEntry {
	out := make([]CartEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ProductID == "" {
			continue
		}
		if _, dup := seen[e.ProductID]; dup {
			continue
		}
		seen[e.ProductID] = struct{}{}
		if e.Quantity < 1 {
			e.Quantity = 1
		}
		out = append(out, e)
	}
	return out
}

// CartStore is the persistence boundary for the cart. Load must be
// fail-soft at the engine level: callers treat errors as an empty cart.
type CartStore interface {
	Load(ctx context.Context) (Cart, error)
	Save(ctx context.Context, cart Cart) error
	Clear(ctx context.Context) error
}
