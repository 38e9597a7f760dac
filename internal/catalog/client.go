// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog is the bibliographic catalog collaborator: a rate-limited
// Semantic Scholar Graph API client that returns papers with their raw
// BibTeX citations and reference edges.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/pkg/types"
)

const (
	// DefaultBaseURL is the official Semantic Scholar API root.
	DefaultBaseURL = "https://api.semanticscholar.org"

	// DefaultRateLimit is the public unauthenticated rate in requests per second.
	DefaultRateLimit = 1.0

	// DefaultSearchLimit applies when Search is called with limit <= 0.
	DefaultSearchLimit = 10

	// DefaultReferencesLimit applies when GetReferences is called with limit <= 0.
	DefaultReferencesLimit = 50

	// DefaultTimeout is the HTTP timeout of the default client.
	DefaultTimeout = 30 * time.Second

	searchFields     = "title,authors,year,abstract,citationCount,venue,openAccessPdf,citationStyles"
	detailsFields    = searchFields + ",references"
	batchFields      = "title,authors,year,citationCount,publicationVenue,journal,citationStyles,abstract"
	referencesFields = "contexts,title,authors,year,citationCount"

	officialHost = "api.semanticscholar.org"
)

// Catalog is the capability set the resolution pipeline consumes. Each
// method returns an empty collection, not an error, when the upstream
// catalog fails outright.
type Catalog interface {
	Search(ctx context.Context, query string, limit int) ([]types.Paper, error)
	GetReferences(ctx context.Context, paperID string, limit int) ([]types.ReferenceEdge, error)
	BatchGet(ctx context.Context, paperIDs []string) ([]types.Paper, error)
}

// ResponseCache stores raw response bodies keyed by request.
type ResponseCache interface {
	Lookup(ctx context.Context, method, url string, body []byte) ([]byte, bool, error)
	Save(ctx context.Context, method, url string, body, payload []byte) error
}

// Client is a rate-limited Semantic Scholar client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      httputil.RetryPolicy
	cache      ResponseCache
	logger     *zap.Logger
	apiKey     string
	baseURL    string
	userAgent  string
}

var _ Catalog = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL sets the API root (a proxy, or an httptest server).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryPolicy sets the bounded retry policy.
func WithRetryPolicy(p httputil.RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retry = p
	}
}

// WithRateLimit sets the request rate in requests per second. A value of
// zero or less disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithCache enables the response cache.
func WithCache(rc ResponseCache) ClientOption {
	return func(c *Client) {
		c.cache = rc
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a catalog client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		retry:      httputil.DefaultRetryPolicy(),
		logger:     zap.NewNop(),
		baseURL:    DefaultBaseURL,
		userAgent:  types.DefaultConfig().Catalog.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.retry.OnRetry == nil {
		log := c.logger
		c.retry.OnRetry = func(attempt int, wait time.Duration, reason string) {
			log.Debug("retrying catalog request",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.String("reason", reason))
		}
	}
	return c
}

// Search returns up to limit papers matching query, best match first.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {searchFields},
	}

	var sr s2SearchResponse
	if err := c.get(ctx, "/graph/v1/paper/search", params, &sr); err != nil {
		return []types.Paper{}, c.degrade(ctx, "search", err, zap.String("query", query))
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, p := range sr.Data {
		papers = append(papers, p.toPaper())
	}
	return papers, nil
}

// GetDetails returns one paper with its embedded reference list. Identifiers
// that look like DOIs are looked up as DOI:<id>. An unknown paper yields an
// error satisfying IsNotFound.
func (c *Client) GetDetails(ctx context.Context, paperID string) (*Details, error) {
	id := NormalizeID(paperID)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var p s2Paper
	err := c.get(ctx, "/graph/v1/paper/"+id, url.Values{"fields": {detailsFields}}, &p)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, paperID)
		}
		return nil, fmt.Errorf("fetching paper %s: %w", paperID, err)
	}

	d := &Details{Paper: p.toPaper()}
	for _, ref := range p.References {
		d.References = append(d.References, types.ReferenceEdge{
			CitingPaperID: p.PaperID,
			CitedPaperID:  ref.PaperID,
			CitedTitle:    ref.Title,
		})
	}
	return d, nil
}

// GetReferences returns up to limit reference edges of paperID. Edges whose
// cited work the catalog could not resolve carry an empty CitedPaperID.
func (c *Client) GetReferences(ctx context.Context, paperID string, limit int) ([]types.ReferenceEdge, error) {
	id := NormalizeID(paperID)
	if id == "" {
		return []types.ReferenceEdge{}, nil
	}
	if limit <= 0 {
		limit = DefaultReferencesLimit
	}

	params := url.Values{
		"fields": {referencesFields},
		"limit":  {strconv.Itoa(limit)},
	}

	var rr s2ReferencesResponse
	if err := c.get(ctx, "/graph/v1/paper/"+id+"/references", params, &rr); err != nil {
		return []types.ReferenceEdge{}, c.degrade(ctx, "references", err, zap.String("paper_id", paperID))
	}

	edges := make([]types.ReferenceEdge, 0, len(rr.Data))
	for _, r := range rr.Data {
		edges = append(edges, r.toEdge(paperID))
	}
	return edges, nil
}

// BatchGet fetches full records for paperIDs in one request. Identifiers
// the catalog does not know are absent from the result.
func (c *Client) BatchGet(ctx context.Context, paperIDs []string) ([]types.Paper, error) {
	if len(paperIDs) == 0 {
		return nil, ErrNoIDs
	}

	ids := make([]string, 0, len(paperIDs))
	for _, id := range paperIDs {
		ids = append(ids, NormalizeID(id))
	}
	body, err := json.Marshal(s2BatchRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("encoding batch request: %w", err)
	}

	var records []*s2Paper
	if err := c.do(ctx, http.MethodPost, "/graph/v1/paper/batch", url.Values{"fields": {batchFields}}, body, &records); err != nil {
		return []types.Paper{}, c.degrade(ctx, "batch", err, zap.Int("ids", len(ids)))
	}

	papers := make([]types.Paper, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		papers = append(papers, r.toPaper())
	}
	return papers, nil
}

// NormalizeID trims id and prefixes bare DOIs with "DOI:".
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, "10.") {
		return "DOI:" + id
	}
	return id
}

// degrade turns an upstream failure into an empty result. Cancellation is
// the caller's decision and is returned as is.
func (c *Client) degrade(ctx context.Context, op string, err error, fields ...zap.Field) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	c.logger.Warn("catalog request failed, returning no results",
		append(fields,
			zap.String("operation", op),
			zap.Bool("rate_limited", IsRateLimited(err)),
			zap.Error(err))...)
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

// do performs one API call through the cache, the rate limiter and the
// retry policy, and decodes the JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if c.cache != nil {
		payload, ok, err := c.cache.Lookup(ctx, method, reqURL, body)
		if err != nil {
			c.logger.Warn("cache lookup failed", zap.String("url", reqURL), zap.Error(err))
		} else if ok {
			c.logger.Debug("catalog cache hit", zap.String("url", reqURL))
			return decode(payload, out)
		}
	}

	payload, err := c.fetch(ctx, method, reqURL, body)
	if err != nil {
		return err
	}
	if err := decode(payload, out); err != nil {
		return err
	}

	if c.cache != nil {
		if err := c.cache.Save(ctx, method, reqURL, body, payload); err != nil {
			c.logger.Warn("cache save failed", zap.String("url", reqURL), zap.Error(err))
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, method, reqURL string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, rdr)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	c.logger.Debug("catalog request", zap.String("method", method), zap.String("url", reqURL))

	resp, err := c.retry.Do(ctx, c.httpClient, req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading catalog response: %w", err)
	}
	return payload, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey == "" {
		return
	}
	req.Header.Set("x-api-key", c.apiKey)
	if req.URL.Hostname() != officialHost {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func decode(payload []byte, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
