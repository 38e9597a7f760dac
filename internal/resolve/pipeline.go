// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns a paper title into the matched paper and its
// enriched reference list, attaching GB/T 7714 citations wherever the
// catalog supplies BibTeX.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/citation-engine/internal/catalog"
	"github.com/pdiddy/citation-engine/internal/gbt7714"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// DefaultReferenceLimit caps the reference edges fetched per paper.
const DefaultReferenceLimit = 50

// Pipeline resolves titles against a catalog. It holds no per-call state
// and may be shared between goroutines.
type Pipeline struct {
	catalog        catalog.Catalog
	logger         *zap.Logger
	referenceLimit int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for progress messages.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithReferenceLimit sets how many reference edges are fetched. Values
// of zero or less keep the default.
func WithReferenceLimit(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.referenceLimit = n
		}
	}
}

// New creates a pipeline over cat.
func New(cat catalog.Catalog, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalog:        cat,
		logger:         zap.NewNop(),
		referenceLimit: DefaultReferenceLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve searches for title, takes the first hit as the match, and
// batch-fetches the papers it cites. An unmatched title is a normal result
// with MainPaper nil and Error set to types.NotFoundMessage; a blank title
// matches nothing and never reaches the catalog. Errors come only from the
// catalog (for example a cancelled context).
func (p *Pipeline) Resolve(ctx context.Context, title string) (types.ResolutionResult, error) {
	if strings.TrimSpace(title) == "" {
		return notFound(), nil
	}
	p.logger.Info("searching catalog", zap.String("title", title))

	hits, err := p.catalog.Search(ctx, title, 1)
	if err != nil {
		return types.ResolutionResult{}, fmt.Errorf("searching for %q: %w", title, err)
	}
	if len(hits) == 0 {
		p.logger.Info("no paper matched", zap.String("title", title))
		return notFound(), nil
	}

	main := hits[0]
	AttachCitation(&main)
	p.logger.Info("matched paper", zap.String("paper_id", main.ID), zap.String("matched_title", main.Title))

	result := types.ResolutionResult{MainPaper: &main, References: []types.Paper{}}
	if main.ID == "" {
		return result, nil
	}

	edges, err := p.catalog.GetReferences(ctx, main.ID, p.referenceLimit)
	if err != nil {
		return types.ResolutionResult{}, fmt.Errorf("fetching references of %s: %w", main.ID, err)
	}

	ids := citedIDs(edges)
	p.logger.Info("fetched references",
		zap.Int("edges", len(edges)),
		zap.Int("resolvable", len(ids)))
	if len(ids) == 0 {
		return result, nil
	}

	refs, err := p.catalog.BatchGet(ctx, ids)
	if err != nil {
		return types.ResolutionResult{}, fmt.Errorf("fetching %d referenced papers: %w", len(ids), err)
	}
	for i := range refs {
		AttachCitation(&refs[i])
	}
	result.References = append(result.References, refs...)

	p.logger.Info("resolved references", zap.Int("references", len(result.References)))
	return result, nil
}

func notFound() types.ResolutionResult {
	return types.ResolutionResult{
		References: []types.Paper{},
		Error:      types.NotFoundMessage,
	}
}

// citedIDs returns the cited-paper identifiers of edges in order, dropping
// edges the catalog could not resolve.
func citedIDs(edges []types.ReferenceEdge) []string {
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		if e.CitedPaperID != "" {
			ids = append(ids, e.CitedPaperID)
		}
	}
	return ids
}

// AttachCitation composes the GB/T 7714 citation of paper from its BibTeX.
// Papers without BibTeX are left unchanged.
func AttachCitation(paper *types.Paper) {
	if paper.BibTeX == "" {
		return
	}
	paper.GBT7714 = gbt7714.Compose(paper.BibTeX)
}
