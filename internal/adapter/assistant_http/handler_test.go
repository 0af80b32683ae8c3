package assistant_http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noon-assistant/internal/adapter/assistant_http"
	"noon-assistant/internal/domain"
	"noon-assistant/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubUsecase struct {
	output    *usecase.RecommendOutput
	err       error
	lastQuery string
}

func (s *stubUsecase) Execute(_ context.Context, input usecase.RecommendInput) (*usecase.RecommendOutput, error) {
	s.lastQuery = input.Query
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	return s.text, s.err
}

func okOutput() *usecase.RecommendOutput {
	price := 99.5
	return &usecase.RecommendOutput{
		RunID:    "run-1",
		Intro:    "Here you go.",
		PlanText: "search_steps:\n  - q: \"sugar\"",
		Steps:    []domain.SearchStep{{Query: "sugar", Filters: domain.Filters{"brand": []string{"mdh"}}}},
		Products: []domain.ProductCandidate{
			{SKU: "N123", Name: "MDH Sugar", Brand: "MDH", SalePrice: &price, SearchStep: "sugar"},
		},
		Outcome: usecase.OutcomeOK,
	}
}

func TestHandler_Recommend(t *testing.T) {
	uc := &stubUsecase{output: okOutput()}
	h := assistant_http.NewHandler(uc, &stubTranscriber{}, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/recommend",
		strings.NewReader(`{"query": "buy sugar"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Recommend(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "buy sugar", uc.lastQuery)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, "ok", body["outcome"])
	assert.Equal(t, "Here you go.", body["intro"])

	products, ok := body["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)
	product := products[0].(map[string]any)
	assert.Equal(t, "N123", product["sku"])
	assert.Equal(t, 99.5, product["sale_price"])
	assert.Nil(t, product["price"], "absent price must serialize as null, not zero")
}

func TestHandler_Recommend_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"query": `},
		{"empty query", `{"query": ""}`},
		{"missing query", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := assistant_http.NewHandler(&stubUsecase{}, &stubTranscriber{}, discardLogger())

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/v1/assistant/recommend", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			require.NoError(t, h.Recommend(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_Recommend_UsecaseError(t *testing.T) {
	uc := &stubUsecase{err: errors.New("planner unavailable")}
	h := assistant_http.NewHandler(uc, &stubTranscriber{}, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/recommend",
		strings.NewReader(`{"query": "sugar"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Recommend(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_Carousel(t *testing.T) {
	uc := &stubUsecase{output: okOutput()}
	h := assistant_http.NewHandler(uc, &stubTranscriber{}, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/assistant/carousel?q=sugar", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Carousel(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "MDH Sugar")
	assert.Contains(t, rec.Body.String(), "AED 99.50")
}

func TestHandler_Carousel_NonOKOutcomeRendersMessage(t *testing.T) {
	uc := &stubUsecase{output: &usecase.RecommendOutput{
		RunID:   "run-2",
		Outcome: usecase.OutcomeNoProducts,
		Message: "No products found. Try refining your query.",
	}}
	h := assistant_http.NewHandler(uc, &stubTranscriber{}, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/assistant/carousel?q=unobtainium", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Carousel(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>No products found. Try refining your query.</p>", rec.Body.String())
}

func TestHandler_Carousel_MissingQuery(t *testing.T) {
	h := assistant_http.NewHandler(&stubUsecase{}, &stubTranscriber{}, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/assistant/carousel", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Carousel(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Transcribe(t *testing.T) {
	h := assistant_http.NewHandler(&stubUsecase{}, &stubTranscriber{text: "buy sugar"}, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/transcribe", strings.NewReader("RIFFfakewav"))
	rec := httptest.NewRecorder()

	require.NoError(t, h.Transcribe(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "buy sugar", body["text"])
}

func TestHandler_Transcribe_FailureIsBestEffort(t *testing.T) {
	h := assistant_http.NewHandler(&stubUsecase{},
		&stubTranscriber{err: errors.New("whisper down")}, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/transcribe", strings.NewReader("RIFF"))
	rec := httptest.NewRecorder()

	require.NoError(t, h.Transcribe(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code, "transcription failures must not surface as errors")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "", body["text"])
}

func TestHandler_Transcribe_EmptyBody(t *testing.T) {
	h := assistant_http.NewHandler(&stubUsecase{}, &stubTranscriber{}, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/assistant/transcribe", strings.NewReader(""))
	rec := httptest.NewRecorder()

	require.NoError(t, h.Transcribe(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
