package domain

import "testing"

func TestProductEntrySnapshot(t *testing.T) {
	p := Product{
		ID:       "p1",
		Title:    "Leather Bag",
		Price:    100,
		Discount: 25,
		Gallery:  []GalleryImage{{URL: "https://cdn.example.com/bag.jpg"}},
	}

	e := p.Entry(3)
	if e.ProductID != "p1" || e.Title != "Leather Bag" {
		t.Fatalf("display metadata not copied: %+v", e)
	}
	if e.UnitPrice != 100 || e.DiscountPercent != 25 {
		t.Fatalf("pricing fields not copied: %+v", e)
	}
	if e.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", e.Quantity)
	}
	if e.ImageURL() != "https://cdn.example.com/bag.jpg" {
		t.Fatalf("unexpected image url %q", e.ImageURL())
	}
}

func TestProductEntryClampsQuantity(t *testing.T) {
	p := Product{ID: "p1", Price: 10}
	for _, qty := range []int{0, -1, -100} {
		if got := p.Entry(qty).Quantity; got != 1 {
			t.Fatalf("Entry(%d): expected quantity 1, got %d", qty, got)
		}
	}
	if got := p.Entry(1).Quantity; got != 1 {
		t.Fatalf("Entry(1): expected quantity 1, got %d", got)
	}
}

func TestCartHelpers(t *testing.T) {
	c := Cart{Entries: []CartEntry{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 1},
	}}

	if c.IsEmpty() {
		t.Fatal("cart should not be empty")
	}
	if got := c.ItemCount(); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}
	if i, ok := c.IndexOf("b"); !ok || i != 1 {
		t.Fatalf("IndexOf(b) = %d, %v", i, ok)
	}
	if _, ok := c.IndexOf("missing"); ok {
		t.Fatal("IndexOf should miss for unknown id")
	}
	if e, ok := c.Find("a"); !ok || e.Quantity != 2 {
		t.Fatalf("Find(a) = %+v, %v", e, ok)
	}

	empty := Cart{}
	if !empty.IsEmpty() || empty.ItemCount() != 0 {
		t.Fatal("zero-value cart should be empty")
	}
}

func TestEntryImageURLEmptyGallery(t *testing.T) {
	if got := (CartEntry{}).ImageURL(); got != "" {
		t.Fatalf("expected empty image url, got %q", got)
	}
}

func TestValidateProduct(t *testing.T) {
	cases := []struct {
		name    string
		product Product
		wantErr bool
	}{
		{"valid", Product{ID: "p1", Title: "A", Price: 10, Discount: 50}, false},
		{"zero price", Product{ID: "p2", Price: 0}, false},
		{"empty id", Product{Price: 10}, true},
		{"negative price", Product{ID: "p3", Price: -1}, true},
		{"negative discount", Product{ID: "p4", Price: 1, Discount: -5}, true},
		{"discount over 100", Product{ID: "p5", Price: 1, Discount: 101}, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateProduct(tc.product)
			if tc.wantErr && !IsInvalidProductError(err) {
				t.Fatalf("expected InvalidProductError, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeEntries(t *testing.T) {
	in := []CartEntry{
		{ProductID: "a", Quantity: 2},
		{ProductID: "", Quantity: 1},
		{ProductID: "a", Quantity: 9},
		{ProductID: "b", Quantity: 0},
		{ProductID: "c", Quantity: -3},
	}

	out := NormalizeEntries(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(out), out)
	}
	if out[0].ProductID != "a" || out[0].Quantity != 2 {
		t.Fatalf("duplicate should keep first occurrence, got %+v", out[0])
	}
	if out[1].ProductID != "b" || out[1].Quantity != 1 {
		t.Fatalf("zero quantity should clamp to 1, got %+v", out[1])
	}
	if out[2].ProductID != "c" || out[2].Quantity != 1 {
		t.Fatalf("negative quantity should clamp to 1, got %+v", out[2])
	}
}
