package domain

// Recognized filter keys on a search step. Anything else is carried through
// untouched so a richer plan does not break the pipeline.
const (
	FilterBrand    = "brand"
	FilterMaxPrice = "max_price"
)

// Filters holds the optional constraints the planner attached to a step.
type Filters map[string]any

// SearchStep is one atomic catalog query derived from the plan.
type SearchStep struct {
	Query   string
	Filters Filters
}

// Normalize canonicalizes ad-hoc filter shapes: a bare brand string becomes a
// one-element list, and a list of mixed YAML values is reduced to its string
// entries. All other keys pass through unchanged. Idempotent.
func (f Filters) Normalize() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	switch v := out[FilterBrand].(type) {
	case string:
		out[FilterBrand] = []string{v}
	case []any:
		brands := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				brands = append(brands, s)
			}
		}
		out[FilterBrand] = brands
	}
	return out
}

// Brands returns the brand filter as an ordered list, empty when absent.
func (f Filters) Brands() []string {
	switch v := f.Normalize()[FilterBrand].(type) {
	case []string:
		return v
	}
	return nil
}
