package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"noon-assistant/internal/domain"
)

var flagDigitPattern = regexp.MustCompile(`[01]`)

// RelevanceJudge asks the LLM, in a single batched call per pipeline run,
// which fetched candidates are worth showing. The returned verdict is total
// over the candidate set: skus the model did not mention default to hidden.
// A remote or empty-response failure is returned as an error so the caller
// can apply its own policy (the orchestrator fails open at that boundary).
type RelevanceJudge struct {
	llm       domain.LLMClient
	maxTokens int
	logger    *slog.Logger
}

func NewRelevanceJudge(llm domain.LLMClient, maxTokens int, logger *slog.Logger) *RelevanceJudge {
	return &RelevanceJudge{
		llm:       llm,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (j *RelevanceJudge) Judge(ctx context.Context, userQuery string, candidates []domain.ProductCandidate) (domain.RelevanceVerdict, error) {
	if len(candidates) == 0 {
		return domain.RelevanceVerdict{}, nil
	}

	prompt := buildJudgePrompt(userQuery, candidates)
	resp, err := j.llm.Generate(ctx, prompt, j.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to call relevance judge: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, fmt.Errorf("relevance judge returned empty response")
	}

	parsed := parseSKUFlags(resp.Text)

	verdict := make(domain.RelevanceVerdict, len(candidates))
	kept := 0
	for _, c := range candidates {
		flag, ok := parsed[c.SKU]
		if !ok {
			// Fail closed: an unjudged candidate is hidden, never shown.
			flag = 0
		}
		verdict[c.SKU] = flag
		kept += flag
	}

	j.logger.Info("judging_completed",
		slog.String("model", j.llm.Version()),
		slog.Int("candidate_count", len(candidates)),
		slog.Int("kept", kept))

	return verdict, nil
}

// parseSKUFlags reads the line-oriented "<sku> : 0/1" reply. Incidental
// quotes and trailing commas are stripped, and the first 0/1 digit after the
// separator wins; unrecognizable lines are skipped.
func parseSKUFlags(text string) map[string]int {
	mapping := make(map[string]int)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, ",")
		line = strings.NewReplacer(`"`, "", "'", "").Replace(line)

		sku, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		sku = strings.TrimSpace(sku)
		digit := flagDigitPattern.FindString(val)
		if sku == "" || digit == "" {
			continue
		}
		flag := 0
		if digit == "1" {
			flag = 1
		}
		mapping[sku] = flag
	}
	return mapping
}
