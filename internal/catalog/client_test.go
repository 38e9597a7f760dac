// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/citation-engine/internal/httputil"
)

// noSleep lets retry tests run without waiting.
func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestClient(ts *httptest.Server, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithBaseURL(ts.URL),
		WithHTTPClient(ts.Client()),
		WithRateLimit(0),
		WithRetryPolicy(httputil.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Sleep: noSleep}),
	}
	return NewClient(append(base, opts...)...)
}

const searchBody = `{"total":2,"offset":0,"data":[
  {"paperId":"p1","title":"Anatomy-Aware 3D Human Pose Estimation","year":2021,"abstract":"abs",
   "venue":"IEEE TCSVT","citationCount":42,
   "authors":[{"authorId":"a1","name":"Tianlang Chen"},{"authorId":"a2","name":"Chengjie Fang"}],
   "openAccessPdf":{"url":"https://example.org/p1.pdf"},
   "citationStyles":{"bibtex":"@Article{c, title = {Anatomy}}"}},
  {"paperId":"p2","title":"Second","year":null,"abstract":null,"authors":[],
   "openAccessPdf":null,"citationStyles":null}
]}`

// --- Search ---

func TestSearchMapsPapers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchBody)
	}))
	defer ts.Close()

	papers, err := newTestClient(ts).Search(context.Background(), "pose estimation", 2)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Anatomy-Aware 3D Human Pose Estimation", p.Title)
	assert.Equal(t, 2021, p.Year)
	assert.Equal(t, "IEEE TCSVT", p.Venue)
	assert.Equal(t, 42, p.CitationCount)
	assert.Equal(t, []string{"Tianlang Chen", "Chengjie Fang"}, p.AuthorNames())
	assert.Equal(t, "https://example.org/p1.pdf", p.OpenAccessPDF)
	assert.Equal(t, "@Article{c, title = {Anatomy}}", p.BibTeX)

	assert.Equal(t, "p2", papers[1].ID)
	assert.Empty(t, papers[1].BibTeX)
	assert.Empty(t, papers[1].OpenAccessPDF)
}

func TestSearchRequestParams(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, WithUserAgent("citation-engine/test")).Search(context.Background(), "  attention  ", 1)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "/graph/v1/paper/search", captured.URL.Path)
	q := captured.URL.Query()
	assert.Equal(t, "attention", q.Get("query"))
	assert.Equal(t, "1", q.Get("limit"))
	assert.Equal(t, searchFields, q.Get("fields"))
	assert.Equal(t, "citation-engine/test", captured.Header.Get("User-Agent"))
	assert.Empty(t, captured.Header.Get("x-api-key"))
}

func TestSearchDefaultLimit(t *testing.T) {
	var limit string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Search(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Equal(t, "10", limit)
}

func TestSearchEmptyQuery(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:0"))
	_, err := c.Search(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestAPIKeyHeaders(t *testing.T) {
	var captured http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, WithAPIKey("sk_test")).Search(context.Background(), "q", 1)
	require.NoError(t, err)

	assert.Equal(t, "sk_test", captured.Get("x-api-key"))
	// The test server is not the official host, so the proxy header is sent too.
	assert.Equal(t, "Bearer sk_test", captured.Get("Authorization"))
}

// --- Upstream failure ---

func TestSearchDegradesOnUpstreamFailure(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		calls       int32
		rateLimited bool
	}{
		{
			name: "rate limited until exhausted",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			calls:       3,
			rateLimited: true,
		},
		{
			name: "server error until exhausted",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			calls: 3,
		},
		{
			name: "client error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			calls: 1,
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `not json`)
			},
			calls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				tt.handler(w, r)
			}))
			defer ts.Close()

			core, logs := observer.New(zapcore.WarnLevel)
			c := newTestClient(ts, WithLogger(zap.New(core)))

			papers, err := c.Search(context.Background(), "q", 5)
			require.NoError(t, err)
			assert.NotNil(t, papers)
			assert.Empty(t, papers)
			assert.Equal(t, tt.calls, atomic.LoadInt32(&calls))
			failures := logs.FilterMessage("catalog request failed, returning no results")
			assert.Equal(t, 1, failures.Len())
			assert.Equal(t, 1, failures.FilterField(zap.Bool("rate_limited", tt.rateLimited)).Len())
		})
	}
}

func TestSearchCancelledContextIsReturned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(ts).Search(ctx, "q", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

// --- Details ---

func TestGetDetailsDOIPrefixAndReferences(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, detailsFields, r.URL.Query().Get("fields"))
		fmt.Fprint(w, `{"paperId":"p9","title":"T","authors":[{"name":"A B"}],
		  "citationStyles":{"bibtex":"@article{x, title={T}}"},
		  "references":[{"paperId":"r1","title":"R1"},{"paperId":null,"title":"Unresolved"}]}`)
	}))
	defer ts.Close()

	d, err := newTestClient(ts).GetDetails(context.Background(), "10.1109/TCSVT.2021.3057267")
	require.NoError(t, err)

	assert.Equal(t, "/graph/v1/paper/DOI:10.1109/TCSVT.2021.3057267", path)
	assert.Equal(t, "p9", d.ID)
	assert.Equal(t, "@article{x, title={T}}", d.BibTeX)
	require.Len(t, d.References, 2)
	assert.Equal(t, "r1", d.References[0].CitedPaperID)
	assert.Equal(t, "p9", d.References[0].CitingPaperID)
	assert.Empty(t, d.References[1].CitedPaperID)
}

func TestGetDetailsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"Paper with id nope not found"}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).GetDetails(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

// --- References ---

func TestGetReferencesMapsEdges(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"offset":0,"data":[
		  {"contexts":["as shown in [3]"],"citedPaper":{"paperId":"c1","title":"Cited One"}},
		  {"contexts":[],"citedPaper":{"paperId":null,"title":"No Id"}},
		  {"citedPaper":null}
		]}`)
	}))
	defer ts.Close()

	edges, err := newTestClient(ts).GetReferences(context.Background(), "p1", 50)
	require.NoError(t, err)

	assert.Equal(t, "/graph/v1/paper/p1/references", captured.URL.Path)
	assert.Equal(t, "50", captured.URL.Query().Get("limit"))
	assert.Equal(t, referencesFields, captured.URL.Query().Get("fields"))

	require.Len(t, edges, 3)
	assert.Equal(t, "c1", edges[0].CitedPaperID)
	assert.Equal(t, "Cited One", edges[0].CitedTitle)
	assert.Equal(t, []string{"as shown in [3]"}, edges[0].Contexts)
	assert.Equal(t, "p1", edges[0].CitingPaperID)
	assert.Empty(t, edges[1].CitedPaperID)
	assert.Equal(t, "No Id", edges[1].CitedTitle)
	assert.Empty(t, edges[2].CitedPaperID)
}

func TestGetReferencesDegrades(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	edges, err := newTestClient(ts).GetReferences(context.Background(), "p1", 5)
	require.NoError(t, err)
	assert.NotNil(t, edges)
	assert.Empty(t, edges)
}

// --- Batch ---

func TestBatchGetPostsIDsAndSkipsUnknown(t *testing.T) {
	var captured *http.Request
	var body []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		body, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, `[
		  {"paperId":"c1","title":"One","publicationVenue":{"name":"CVPR"},
		   "citationStyles":{"bibtex":"@inproceedings{a, title={One}}"}},
		  null,
		  {"paperId":"c3","title":"Three","journal":{"name":"Nature","volume":"5"}}
		]`)
	}))
	defer ts.Close()

	papers, err := newTestClient(ts).BatchGet(context.Background(), []string{"c1", "missing", "10.1/x"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/graph/v1/paper/batch", captured.URL.Path)
	assert.Equal(t, batchFields, captured.URL.Query().Get("fields"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))

	var req s2BatchRequest
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, []string{"c1", "missing", "DOI:10.1/x"}, req.IDs)

	require.Len(t, papers, 2)
	assert.Equal(t, "CVPR", papers[0].Venue)
	assert.Equal(t, "@inproceedings{a, title={One}}", papers[0].BibTeX)
	assert.Equal(t, "Nature", papers[1].Venue)
}

func TestBatchGetNoIDs(t *testing.T) {
	c := NewClient(WithBaseURL("http://127.0.0.1:0"))

	_, err := c.BatchGet(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoIDs)

	_, err = c.BatchGet(context.Background(), []string{})
	assert.ErrorIs(t, err, ErrNoIDs)
}

// --- Cache ---

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *memCache) key(method, url string, body []byte) string {
	return method + " " + url + " " + string(body)
}

func (m *memCache) Lookup(_ context.Context, method, url string, body []byte) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.entries[m.key(method, url, body)]
	return p, ok, nil
}

func (m *memCache) Save(_ context.Context, method, url string, body, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.key(method, url, body)] = payload
	return nil
}

func TestCacheServesRepeatedRequests(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, searchBody)
	}))
	defer ts.Close()

	c := newTestClient(ts, WithCache(&memCache{entries: map[string][]byte{}}))

	first, err := c.Search(context.Background(), "pose", 2)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), "pose", 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCacheSkipsFailedResponses(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	mc := &memCache{entries: map[string][]byte{}}
	c := newTestClient(ts, WithCache(mc))

	_, _ = c.Search(context.Background(), "pose", 2)
	_, _ = c.Search(context.Background(), "pose", 2)

	assert.Empty(t, mc.entries)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// --- Helpers ---

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"10.1038/nature14539", "DOI:10.1038/nature14539"},
		{" 10.1/x ", "DOI:10.1/x"},
		{"649def34f8be52c8b66281af98ae884c09aef38b", "649def34f8be52c8b66281af98ae884c09aef38b"},
		{"DOI:10.1/x", "DOI:10.1/x"},
		{"arXiv:1706.03762", "arXiv:1706.03762"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeID(tt.in), "NormalizeID(%q)", tt.in)
	}
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.True(t, IsNotFound(fmt.Errorf("wrap: %w", ErrNotFound)))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusBadRequest}))

	assert.True(t, IsRateLimited(fmt.Errorf("wrap: %w", ErrRateLimited)))
	assert.True(t, IsRateLimited(&APIError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, IsRateLimited(ErrNotFound))

	assert.Contains(t, (&APIError{StatusCode: 500, Message: "boom", PaperID: "p1"}).Error(), "paper: p1")
}
