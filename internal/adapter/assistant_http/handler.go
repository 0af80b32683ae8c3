package assistant_http

import (
	"html"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"noon-assistant/internal/adapter/render"
	"noon-assistant/internal/domain"
	"noon-assistant/internal/usecase"
)

// maxAudioBytes caps voice uploads; two minutes of 16kHz mono WAV fits well
// under this.
const maxAudioBytes = 10 << 20

type Handler struct {
	recommendUsecase usecase.RecommendProductsUsecase
	transcriber      domain.Transcriber
	logger           *slog.Logger
}

func NewHandler(
	recommendUsecase usecase.RecommendProductsUsecase,
	transcriber domain.Transcriber,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		recommendUsecase: recommendUsecase,
		transcriber:      transcriber,
		logger:           logger,
	}
}

type recommendRequest struct {
	Query string `json:"query"`
}

type stepResponse struct {
	Query   string         `json:"query"`
	Filters map[string]any `json:"filters,omitempty"`
}

type productResponse struct {
	SKU        string   `json:"sku"`
	Name       string   `json:"name"`
	Brand      string   `json:"brand"`
	ImageURL   string   `json:"image_url,omitempty"`
	ProductURL string   `json:"product_url,omitempty"`
	Price      *float64 `json:"price"`
	SalePrice  *float64 `json:"sale_price"`
	Rating     *float64 `json:"rating"`
	SearchStep string   `json:"search_step"`
}

type recommendResponse struct {
	RunID    string            `json:"run_id"`
	Intro    string            `json:"intro,omitempty"`
	Plan     string            `json:"plan"`
	Steps    []stepResponse    `json:"steps"`
	Products []productResponse `json:"products"`
	Outcome  string            `json:"outcome"`
	Message  string            `json:"message,omitempty"`
}

// Recommend runs the full pipeline and returns the filtered products.
// (POST /v1/assistant/recommend)
func (h *Handler) Recommend(ctx echo.Context) error {
	var req recommendRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	output, err := h.recommendUsecase.Execute(ctx.Request().Context(), usecase.RecommendInput{Query: req.Query})
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return ctx.JSON(http.StatusOK, toRecommendResponse(output))
}

// Carousel runs the pipeline and renders the result as an HTML card list.
// (GET /v1/assistant/carousel?q=...)
func (h *Handler) Carousel(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
	}

	output, err := h.recommendUsecase.Execute(ctx.Request().Context(), usecase.RecommendInput{Query: query})
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if output.Outcome != usecase.OutcomeOK {
		return ctx.HTML(http.StatusOK, "<p>"+html.EscapeString(output.Message)+"</p>")
	}

	carousel, err := render.Carousel(output.Products)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.HTML(http.StatusOK, carousel)
}

// Transcribe converts an uploaded audio body into text. Transcription is
// best-effort: any failure yields an empty transcript, never an error status.
// (POST /v1/assistant/transcribe)
func (h *Handler) Transcribe(ctx echo.Context) error {
	audio, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxAudioBytes))
	if err != nil || len(audio) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "audio body is required"})
	}

	text, err := h.transcriber.Transcribe(ctx.Request().Context(), audio)
	if err != nil {
		h.logger.Warn("transcription_failed", slog.String("error", err.Error()))
		text = ""
	}

	return ctx.JSON(http.StatusOK, map[string]string{"text": text})
}

func toRecommendResponse(output *usecase.RecommendOutput) recommendResponse {
	steps := make([]stepResponse, 0, len(output.Steps))
	for _, s := range output.Steps {
		steps = append(steps, stepResponse{Query: s.Query, Filters: s.Filters})
	}

	products := make([]productResponse, 0, len(output.Products))
	for _, p := range output.Products {
		products = append(products, productResponse{
			SKU:        p.SKU,
			Name:       p.Name,
			Brand:      p.Brand,
			ImageURL:   p.ImageURL,
			ProductURL: p.ProductURL,
			Price:      p.Price,
			SalePrice:  p.SalePrice,
			Rating:     p.Rating,
			SearchStep: p.SearchStep,
		})
	}

	return recommendResponse{
		RunID:    output.RunID,
		Intro:    output.Intro,
		Plan:     output.PlanText,
		Steps:    steps,
		Products: products,
		Outcome:  string(output.Outcome),
		Message:  output.Message,
	}
}
