package usecase

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"noon-assistant/internal/domain"
)

// Fallback extractors in decreasing strictness, tried only when the
// structured parse yields nothing. The first pattern with at least one match
// wins; matches are never merged across patterns.
var (
	stepObjectPattern = regexp.MustCompile(`-\s*\{[^}]*q:\s*"([^"]+)"[^}]*\}`)
	stepLinePattern   = regexp.MustCompile(`-\s*q:\s*"([^"]+)"`)
	bareQueryPattern  = regexp.MustCompile(`\bq:\s*"([^"]+)"`)
)

// ParseOutcome is the tagged result of a plan parse: either the structured
// document parse succeeded, or a fallback extractor recovered the queries.
type ParseOutcome struct {
	Steps      []domain.SearchStep
	Structured bool
}

// PlanParser turns the planner's free-text reply into ordered search steps.
// Parse never fails; on total failure it returns zero steps so the caller can
// apply its own last-resort default.
type PlanParser struct {
	logger *slog.Logger
}

func NewPlanParser(logger *slog.Logger) *PlanParser {
	return &PlanParser{logger: logger}
}

func (p *PlanParser) Parse(raw string) ParseOutcome {
	steps, err := parseStructured(raw)
	if err != nil {
		// Diagnostic only; the fallback chain runs regardless.
		p.logger.Warn("plan_parse_failed", slog.String("error", err.Error()))
	}
	if len(steps) > 0 {
		return ParseOutcome{Steps: steps, Structured: true}
	}

	for _, pattern := range []*regexp.Regexp{stepObjectPattern, stepLinePattern, bareQueryPattern} {
		var recovered []domain.SearchStep
		for _, m := range pattern.FindAllStringSubmatch(raw, -1) {
			q := strings.TrimSpace(m[1])
			if q == "" {
				continue
			}
			recovered = append(recovered, domain.SearchStep{Query: q, Filters: domain.Filters{}})
		}
		if len(recovered) > 0 {
			return ParseOutcome{Steps: recovered}
		}
	}

	return ParseOutcome{}
}

// parseStructured attempts a full-document YAML parse under the convention
// that a document-level search_steps key holds the ordered step list. Entries
// are either mappings with a q/query field or bare query strings.
func parseStructured(raw string) ([]domain.SearchStep, error) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("not a structured plan document: %w", err)
	}

	items, ok := doc["search_steps"].([]any)
	if !ok {
		return nil, nil
	}

	var steps []domain.SearchStep
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			q, _ := v["q"].(string)
			if q == "" {
				q, _ = v["query"].(string)
			}
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			filters := domain.Filters{}
			if fm, ok := v["filters"].(map[string]any); ok {
				filters = domain.Filters(fm)
			}
			steps = append(steps, domain.SearchStep{Query: q, Filters: filters})
		case string:
			q := strings.TrimSpace(v)
			if q != "" {
				steps = append(steps, domain.SearchStep{Query: q, Filters: domain.Filters{}})
			}
		}
	}
	return steps, nil
}

// IntroLine returns the assistant's introductory message: everything before
// the intent label, or an empty string when the plan has no prose preamble.
func IntroLine(raw string) string {
	var intro []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "intent:") || strings.HasPrefix(trimmed, "search_steps:") {
			break
		}
		if trimmed != "" {
			intro = append(intro, trimmed)
		}
	}
	return strings.Join(intro, " ")
}
