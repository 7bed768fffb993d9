package domain

import "math"

// LineTotal is the priced projection of one cart entry.
type LineTotal struct {
	ProductID           string  `json:"_id"`
	Title               string  `json:"title"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"price"`
	DiscountPercent     float64 `json:"discount"`
	DiscountedUnitPrice float64 `json:"discountedPrice"`
	LineTotal           float64 `json:"lineTotal"`
}

// OrderSummary is a derived aggregation of a cart's totals. It is never
// persisted; recompute it whenever the cart changes.
type OrderSummary struct {
	Lines      []LineTotal `json:"lines"`
	Subtotal   float64     `json:"subtotal"`
	Shipping   float64     `json:"shipping"`
	GrandTotal float64     `json:"grandTotal"`
}

// ComputeSummary prices every entry and accumulates totals at full
// float64 precision. Rounding happens only in Rounded, at presentation
// time, so rounding error does not compound across lines.
func ComputeSummary(cart Cart, shipping float64) OrderSummary {
	s := OrderSummary{
		Lines:    make([]LineTotal, 0, len(cart.Entries)),
		Shipping: shipping,
	}
	for _, e := range cart.Entries {
		unit := e.UnitPrice * (1 - e.DiscountPercent/100)
		line := unit * float64(e.Quantity)
		s.Lines = append(s.Lines, LineTotal{
			ProductID:           e.ProductID,
			Title:               e.Title,
			Quantity:            e.Quantity,
			UnitPrice:           e.UnitPrice,
			DiscountPercent:     e.DiscountPercent,
			DiscountedUnitPrice: unit,
			LineTotal:           line,
		})
		s.Subtotal += line
	}
	s.GrandTotal = s.Subtotal + s.Shipping
	return s
}

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a presentation copy of the summary with every
// monetary field rounded to 2 decimal places. The receiver keeps full
// precision.
func (s OrderSummary) Rounded() OrderSummary {
	out := OrderSummary{
		Lines:      make([]LineTotal, len(s.Lines)),
		Subtotal:   Round2(s.Subtotal),
		Shipping:   Round2(s.Shipping),
		GrandTotal: Round2(s.GrandTotal),
	}
	for i, l := range s.Lines {
		l.DiscountedUnitPrice = Round2(l.DiscountedUnitPrice)
		l.LineTotal = Round2(l.LineTotal)
		out.Lines[i] = l
	}
	return out
}
