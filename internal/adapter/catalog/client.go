package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"noon-assistant/internal/domain"
)

const (
	searchPath     = "/_svc/catalog/api/v3/search"
	defaultSortBy  = "popularity"
	defaultSortDir = "desc"

	// The catalog is a public endpoint; a browser-like UA keeps it from
	// rejecting the request outright.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"
)

// Config holds the catalog client settings.
type Config struct {
	BaseURL   string
	Country   string
	Limit     int
	CacheSize int
	CacheTTL  time.Duration
}

// Client implements domain.CatalogClient against the noon search API.
// Requests are rate limited for politeness and responses are cached briefly
// so duplicate brand expansions within a run do not refetch.
type Client struct {
	baseURL string
	country string
	limit   int
	client  *http.Client
	limiter *rate.Limiter
	cache   *expirable.LRU[string, []domain.ProductCandidate]
	logger  *slog.Logger
}

// NewClient constructs a catalog client. If client is nil a default
// http.Client with the given timeout is created.
func NewClient(cfg Config, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *Client {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		country: cfg.Country,
		limit:   cfg.Limit,
		client:  c,
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		cache:   expirable.NewLRU[string, []domain.ProductCandidate](cfg.CacheSize, nil, cfg.CacheTTL),
		logger:  logger,
	}
}

// Search fetches the top products for one query text, preserving remote
// ordering and keeping only the first limit hits. Every remote failure mode
// returns an error; the caller decides whether to degrade or abort.
func (c *Client) Search(ctx context.Context, query string) ([]domain.ProductCandidate, error) {
	if cached, ok := c.cache.Get(query); ok {
		c.logger.Debug("catalog_cache_hit", slog.String("query", query))
		return slices.Clone(cached), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	startTime := time.Now()

	params := url.Values{}
	params.Set("q", query)
	params.Set("country", c.country)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("page", "1")
	params.Set("sort[by]", defaultSortBy)
	params.Set("sort[dir]", defaultSortDir)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://www.noon.com/")
	req.Header.Set("Origin", "https://www.noon.com")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("catalog_request_failed",
			slog.String("query", query),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to call catalog search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("catalog_request_failed",
			slog.String("query", query),
			slog.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("catalog search returned %d: %s", resp.StatusCode, truncate(string(body), 500))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("catalog returned an empty body")
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("catalog returned invalid JSON: %w", err)
	}

	hits := payload.Hits
	if len(hits) > c.limit {
		hits = hits[:c.limit]
	}

	candidates := make([]domain.ProductCandidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, mapHit(h))
	}

	// Callers annotate the returned candidates in place; the cache keeps its
	// own copy so a cached entry is never aliased across runs.
	c.cache.Add(query, slices.Clone(candidates))
	c.logger.Info("catalog_search_completed",
		slog.String("query", query),
		slog.Int("hit_count", len(candidates)),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return candidates, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

var _ domain.CatalogClient = (*Client)(nil)
