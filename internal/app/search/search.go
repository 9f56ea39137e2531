// Package search provides catalog search with debounced query handling.
package search

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/soracane/voxboard/internal/app/filter"
	"github.com/soracane/voxboard/internal/domain/clip"
)

// Catalog is the data source a searcher reads from.
type Catalog interface {
	Clips(ctx context.Context) ([]clip.Clip, error)
}

// Searcher executes catalog queries through the filter chain.
type Searcher struct {
	catalog Catalog
	chain   *filter.Chain
}

// NewSearcher creates a new searcher.
func NewSearcher(catalog Catalog, chain *filter.Chain) *Searcher {
	return &Searcher{
		catalog: catalog,
		chain:   chain,
	}
}

// Search returns the clips visible for the query.
func (s *Searcher) Search(ctx context.Context, q filter.Query) ([]clip.Clip, error) {
	clips, err := s.catalog.Clips(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read catalog")
	}
	return s.chain.Apply(ctx, q, clips), nil
}
