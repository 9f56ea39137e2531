package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/soracane/voxboard/internal/domain/clip"
	"github.com/soracane/voxboard/internal/infra/config"
)

// Chain applies filters in sequence. A clip is visible only if every
// filter in the chain matches it.
type Chain struct {
	filters []Filter
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Apply returns the clips visible for the query.
func (c *Chain) Apply(ctx context.Context, q Query, clips []clip.Clip) []clip.Clip {
	result := make([]clip.Clip, 0, len(clips))
	for _, cl := range clips {
		if c.matches(ctx, q, cl) {
			result = append(result, cl)
		}
	}
	return result
}

func (c *Chain) matches(ctx context.Context, q Query, cl clip.Clip) bool {
	for _, f := range c.filters {
		if !f.Matches(ctx, q, cl) {
			return false
		}
	}
	return true
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// NewChainFromConfig builds a chain from the filters config map. Enabled
// filters are instantiated from the registry and configured with their
// settings block.
func NewChainFromConfig(filters map[string]config.FilterConfig) (*Chain, error) {
	chain := NewChain()

	for name, fcfg := range filters {
		if !fcfg.Enabled {
			continue
		}

		factory, ok := registry[name]
		if !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}

		f := factory()
		if err := f.ValidateConfig(fcfg.Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}

		chain.Add(f)
		zlog.Info().Msgf("registered search filter: name=%s", name)
	}

	return chain, nil
}
