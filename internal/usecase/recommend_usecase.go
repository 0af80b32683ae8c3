package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"noon-assistant/internal/domain"
)

// RecommendInput carries the user's natural-language query into a run.
type RecommendInput struct {
	Query string
}

// Outcome is the terminal state of a pipeline run.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeNoProducts         Outcome = "no_products"
	OutcomeNoRelevantProducts Outcome = "no_relevant_products"
)

// RecommendOutput is the normalized result handed to rendering. Products is
// already relevance-filtered; Message carries the user-facing report for
// non-ok outcomes.
type RecommendOutput struct {
	RunID    string
	Intro    string
	PlanText string
	Steps    []domain.SearchStep
	Products []domain.ProductCandidate
	Outcome  Outcome
	Message  string
}

// RecommendProductsUsecase defines the contract for one full pipeline run:
// plan, fetch, judge, filter.
type RecommendProductsUsecase interface {
	Execute(ctx context.Context, input RecommendInput) (*RecommendOutput, error)
}

type recommendProductsUsecase struct {
	planner       domain.LLMClient
	promptBuilder *PlanPromptBuilder
	parser        *PlanParser
	catalog       domain.CatalogClient
	judge         *RelevanceJudge
	planMaxTokens int
	logger        *slog.Logger
}

// NewRecommendProductsUsecase wires the components of the shopping pipeline.
func NewRecommendProductsUsecase(
	planner domain.LLMClient,
	promptBuilder *PlanPromptBuilder,
	parser *PlanParser,
	catalog domain.CatalogClient,
	judge *RelevanceJudge,
	planMaxTokens int,
	logger *slog.Logger,
) RecommendProductsUsecase {
	return &recommendProductsUsecase{
		planner:       planner,
		promptBuilder: promptBuilder,
		parser:        parser,
		catalog:       catalog,
		judge:         judge,
		planMaxTokens: planMaxTokens,
		logger:        logger,
	}
}

func (u *recommendProductsUsecase) Execute(ctx context.Context, input RecommendInput) (*RecommendOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	runID := uuid.NewString()
	log := u.logger.With(slog.String("run_id", runID))

	// Stage 1: planning. A failed planner call is fatal, there is nothing to
	// fall back to.
	planResp, err := u.planner.Generate(ctx, u.promptBuilder.Build(query), u.planMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to generate search plan: %w", err)
	}
	planText := planResp.Text
	log.Info("plan_generated", slog.String("model", u.planner.Version()))

	// Stage 2: parse. Zero steps means the model's reply was unusable; retry
	// the raw user text directly against the catalog instead of giving up.
	outcome := u.parser.Parse(planText)
	steps := outcome.Steps
	if len(steps) == 0 {
		log.Warn("plan_unusable_using_raw_query", slog.String("query", query))
		steps = []domain.SearchStep{{Query: query, Filters: domain.Filters{}}}
	}

	// Stage 3: expand and fetch. Queries run in parallel but results are
	// written to their slot so the concatenation order stays step order, then
	// per-step brand order, whatever the completion order was. A single
	// failed fetch degrades that query to zero candidates.
	var queries []domain.CatalogQuery
	for _, step := range steps {
		queries = append(queries, ExpandStep(step)...)
	}

	resultSets := make([][]domain.ProductCandidate, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, cq := range queries {
		g.Go(func() error {
			hits, err := u.catalog.Search(gctx, cq.Text)
			if err != nil {
				log.Warn("catalog_fetch_failed",
					slog.String("query", cq.Text),
					slog.String("error", err.Error()))
				return nil
			}
			for j := range hits {
				hits[j].SearchStep = cq.OriginatingStep
			}
			resultSets[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed while fetching products: %w", err)
	}

	var candidates []domain.ProductCandidate
	for _, set := range resultSets {
		candidates = append(candidates, set...)
	}

	intro := IntroLine(planText)

	if len(candidates) == 0 {
		log.Info("run_completed", slog.String("outcome", string(OutcomeNoProducts)))
		return &RecommendOutput{
			RunID:    runID,
			Intro:    intro,
			PlanText: planText,
			Steps:    steps,
			Outcome:  OutcomeNoProducts,
			Message:  "No products found. Try refining your query.",
		}, nil
	}

	// Stage 4: judge the whole concatenated set in one call. A judge
	// subsystem failure fails open so a transient outage does not blank the
	// page; individual unjudged skus stay fail-closed inside the judge.
	verdict, err := u.judge.Judge(ctx, query, candidates)
	if err != nil {
		log.Warn("judging_unavailable_showing_unfiltered", slog.String("error", err.Error()))
		verdict = make(domain.RelevanceVerdict, len(candidates))
		for _, c := range candidates {
			verdict[c.SKU] = 1
		}
	}

	var relevant []domain.ProductCandidate
	for _, c := range candidates {
		if verdict.Relevant(c.SKU) {
			relevant = append(relevant, c)
		}
	}

	if len(relevant) == 0 {
		log.Info("run_completed", slog.String("outcome", string(OutcomeNoRelevantProducts)))
		return &RecommendOutput{
			RunID:    runID,
			Intro:    intro,
			PlanText: planText,
			Steps:    steps,
			Outcome:  OutcomeNoRelevantProducts,
			Message:  "No relevant products found after validation.",
		}, nil
	}

	log.Info("run_completed",
		slog.String("outcome", string(OutcomeOK)),
		slog.Int("step_count", len(steps)),
		slog.Int("candidate_count", len(candidates)),
		slog.Int("shown", len(relevant)))

	return &RecommendOutput{
		RunID:    runID,
		Intro:    intro,
		PlanText: planText,
		Steps:    steps,
		Products: relevant,
		Outcome:  OutcomeOK,
	}, nil
}
