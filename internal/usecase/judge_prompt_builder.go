package usecase

import (
	"fmt"
	"strings"

	"noon-assistant/internal/domain"
)

// buildJudgePrompt composes the batched relevance-judgment prompt covering
// every candidate of a pipeline run. The expected reply is strictly one
// "<sku> : 0/1" line per candidate, in submission order.
func buildJudgePrompt(userQuery string, candidates []domain.ProductCandidate) string {
	var sb strings.Builder

	sb.WriteString("You validate product relevance for noon.com based on the user query and help decide which products to recommend.\n")
	fmt.Fprintf(&sb, "User Query: %q\n\n", userQuery)
	sb.WriteString("Decide accurately if each product matches its Search Step and is relevant to the User Query. Treat the search step as a sub step in fulfilling the original user query.\n")
	sb.WriteString("- Mark 1 if it's the same item/category or a very close match that makes sense to show to the user for their query.\n")
	sb.WriteString("- Mark 0 if it's a different category, off-topic, or a combo that changes the core ingredient or essence (e.g., 'tomato & mascarpone' is not 'mascarpone cheese'). Do not be over harsh: if the product is still somewhat related and not highly illogical to suggest, give it a 1.\n")
	sb.WriteString("- Focus on the main user query: if the product serves it and is not highly irrelevant to the search step, mark 1.\n")
	sb.WriteString("- Be a little stricter for cooking/ingredient-like steps (spices, oil, ghee, cocoa, etc.).\n")
	sb.WriteString("- Consider yourself the user, and think whether you would be happy to see this product for what you asked.\n\n")
	sb.WriteString("Output format (IMPORTANT): return ONLY one line per product in the SAME ORDER as given:\n")
	sb.WriteString("<SKU> : 0 or 1\n")
	sb.WriteString("No extra text.\n\n")
	sb.WriteString("Evaluate these products:\n")

	for _, c := range candidates {
		fmt.Fprintf(&sb, "Search Step: %q\n", c.SearchStep)
		fmt.Fprintf(&sb, "Product Name: %q\n", c.Name)
		fmt.Fprintf(&sb, "SKU: %q\n\n", c.SKU)
	}

	sb.WriteString("Return only the lines: <SKU> : 0/1\n")
	return sb.String()
}
