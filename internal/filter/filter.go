// Package filter narrows an in-memory product list. Everything here is a pure function of its inputs.
package filter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Criteria are AND-combined. Zero values match everything.
type Criteria struct {
	Text     string
	Category string
	MaxPrice *decimal.Decimal
}

// ParseMaxPrice returns nil for empty or non-numeric input, which disables the price criterion.
func ParseMaxPrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// NewCriteria builds criteria from raw form or flag values.
func NewCriteria(text, category, maxPrice string) Criteria {
	return Criteria{
		Text:     text,
		Category: category,
		MaxPrice: ParseMaxPrice(maxPrice),
	}
}

func (c Criteria) Match(p models.Product) bool {
	if c.Text != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(c.Text)) {
		return false
	}
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if c.MaxPrice != nil && decimal.NewFromFloat(p.Price).GreaterThan(*c.MaxPrice) {
		return false
	}
	return true
}

// Filter keeps the products matching c, in input order. The input is never modified.
func Filter(products []models.Product, c Criteria) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if c.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// DistinctCategories lists each category once, in order of first appearance.
func DistinctCategories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
