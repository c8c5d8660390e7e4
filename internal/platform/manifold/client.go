package manifold

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/manifoldscope/manifoldscope/internal/domain"
)

// ClientConfig holds the connection parameters for the Manifold API client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. "https://api.manifold.markets/v0".
	BaseURL string
	// UserAgent is sent on every request.
	UserAgent string
	// RateLimitRPS caps outgoing requests per second. Zero means 1 rps.
	RateLimitRPS float64
}

// Client is the REST client for the Manifold Markets public API. All calls
// pass through a shared rate limiter so pagination stays polite to the API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Manifold API client.
func NewClient(cfg ClientConfig) *Client {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 1.0
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// GetMarket returns a single market by its ID.
func (c *Client) GetMarket(ctx context.Context, id string) (domain.Market, error) {
	path := fmt.Sprintf("/market/%s", url.PathEscape(id))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.Market{}, fmt.Errorf("manifold: get market %s: %w", id, err)
	}

	var apiMarket APIMarket
	if err := json.Unmarshal(body, &apiMarket); err != nil {
		return domain.Market{}, fmt.Errorf("manifold: decode market: %w", err)
	}

	return apiMarket.ToDomainMarket(), nil
}

// GetMarketBySlug returns a single market looked up by its URL slug.
func (c *Client) GetMarketBySlug(ctx context.Context, slug string) (domain.Market, error) {
	path := fmt.Sprintf("/slug/%s", url.PathEscape(slug))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.Market{}, fmt.Errorf("manifold: get market by slug %s: %w", slug, err)
	}

	var apiMarket APIMarket
	if err := json.Unmarshal(body, &apiMarket); err != nil {
		return domain.Market{}, fmt.Errorf("manifold: decode market: %w", err)
	}

	return apiMarket.ToDomainMarket(), nil
}

// GetUser returns a user by their ID.
func (c *Client) GetUser(ctx context.Context, id string) (domain.User, error) {
	path := fmt.Sprintf("/user/by-id/%s", url.PathEscape(id))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.User{}, fmt.Errorf("manifold: get user %s: %w", id, err)
	}

	var apiUser APIUser
	if err := json.Unmarshal(body, &apiUser); err != nil {
		return domain.User{}, fmt.Errorf("manifold: decode user: %w", err)
	}

	return apiUser.ToDomainUser(), nil
}

// ListBets returns one page of bets for a contract, newest first. The before
// parameter is the pagination cursor: when non-empty, only bets created
// before that bet ID are returned.
func (c *Client) ListBets(ctx context.Context, contractID string, limit int, before string) ([]APIBet, error) {
	params := url.Values{}
	params.Set("contractId", contractID)
	params.Set("limit", strconv.Itoa(limit))
	if before != "" {
		params.Set("before", before)
	}

	path := "/bets?" + params.Encode()

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("manifold: list bets for %s: %w", contractID, err)
	}

	var bets []APIBet
	if err := json.Unmarshal(body, &bets); err != nil {
		return nil, fmt.Errorf("manifold: decode bets: %w", err)
	}

	return bets, nil
}

// FetchAllBets pages through the full bet history for a contract, oldest-ID
// cursor pagination, and returns every bet. Pages are fetched sequentially;
// the client's rate limiter spaces the requests. Pages can overlap at the
// boundary; the ingest layer deduplicates by bet ID.
func (c *Client) FetchAllBets(ctx context.Context, contractID string, pageSize int) ([]APIBet, error) {
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 1000
	}

	var all []APIBet
	before := ""

	for {
		page, err := c.ListBets(ctx, contractID, pageSize, before)
		if err != nil {
			return nil, fmt.Errorf("manifold: fetch all bets (got %d): %w", len(all), err)
		}

		if len(page) == 0 {
			break
		}

		all = append(all, page...)

		if len(page) < pageSize {
			break
		}

		// The oldest bet on the page is the cursor for the next one.
		before = page[len(page)-1].ID
	}

	return all, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet sends a rate-limited, unauthenticated GET request to the API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx status codes to appropriate domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}
