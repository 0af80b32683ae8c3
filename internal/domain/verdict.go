package domain

// RelevanceVerdict maps a candidate sku to its binary show/hide flag
// (1 = show, 0 = hide). A verdict produced by the judge is total over the
// candidate set it was asked about; unmapped skus default to hidden.
type RelevanceVerdict map[string]int

// Relevant reports whether the sku was marked worth showing.
func (v RelevanceVerdict) Relevant(sku string) bool {
	return v[sku] == 1
}
