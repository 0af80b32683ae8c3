package usecase

import "noon-assistant/internal/domain"

// ExpandStep produces the catalog queries for one search step. A multi-brand
// filter fans out into one query per brand ("query/brand", in brand order);
// otherwise the step's query is sent verbatim. Duplicate brands are not
// deduplicated here since catalog calls are idempotent. Every produced query
// keeps the step's user-facing label as its originating step.
func ExpandStep(step domain.SearchStep) []domain.CatalogQuery {
	brands := step.Filters.Brands()
	if len(brands) == 0 {
		return []domain.CatalogQuery{{Text: step.Query, OriginatingStep: step.Query}}
	}

	queries := make([]domain.CatalogQuery, 0, len(brands))
	for _, brand := range brands {
		queries = append(queries, domain.CatalogQuery{
			Text:            step.Query + "/" + brand,
			OriginatingStep: step.Query,
		})
	}
	return queries
}
