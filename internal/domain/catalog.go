package domain

import (
	"context"
	"fmt"
)

// ValueUnavailable is the sentinel shown when the catalog omitted an
// optional field. Absent prices and ratings are never coerced to zero.
const ValueUnavailable = "N/A"

// CatalogQuery is one literal request unit sent to the product search API.
// Text is what the catalog receives (possibly "query/brand"); OriginatingStep
// keeps the user-facing step label for relevance judgment and UI grouping.
type CatalogQuery struct {
	Text            string
	OriginatingStep string
}

// ProductCandidate is one item returned by the catalog for one query.
// Optional fields are nil when the catalog omitted them.
type ProductCandidate struct {
	SKU        string
	Name       string
	Brand      string
	ImageURL   string
	ProductURL string
	Price      *float64
	SalePrice  *float64
	Rating     *float64
	SearchStep string
}

// DisplayPrice prefers the sale price over the list price and falls back to
// the unavailable sentinel.
func (p ProductCandidate) DisplayPrice() string {
	switch {
	case p.SalePrice != nil:
		return fmt.Sprintf("%.2f", *p.SalePrice)
	case p.Price != nil:
		return fmt.Sprintf("%.2f", *p.Price)
	}
	return ValueUnavailable
}

// DisplayRating renders the rating or the unavailable sentinel.
func (p ProductCandidate) DisplayRating() string {
	if p.Rating == nil {
		return ValueUnavailable
	}
	return fmt.Sprintf("%.1f", *p.Rating)
}

// CatalogClient fetches ranked product candidates for one query text.
// Implementations must keep remote-side ordering and truncate to their
// configured limit; they never re-rank.
type CatalogClient interface {
	Search(ctx context.Context, query string) ([]ProductCandidate, error)
}
