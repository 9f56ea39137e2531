package filter

import (
	"context"

	"github.com/soracane/voxboard/internal/domain/clip"
	"github.com/soracane/voxboard/internal/domain/voice"
)

// LanguageFilter matches clips against the query's language tag. A bare
// primary tag ("en") matches any region ("en-US", "en-GB").
type LanguageFilter struct{}

// NewLanguageFilter creates a new language filter.
func NewLanguageFilter() *LanguageFilter {
	return &LanguageFilter{}
}

func (f *LanguageFilter) Name() string {
	return "language_filter"
}

func (f *LanguageFilter) Description() string {
	return "Matches clips against the selected language"
}

func (f *LanguageFilter) ValidateConfig(settings map[string]any) error {
	// No settings
	return nil
}

func (f *LanguageFilter) Matches(ctx context.Context, q Query, c clip.Clip) bool {
	return voice.LanguageMatches(c.Language, q.Language)
}

func init() {
	Register("language_filter", func() Filter {
		return NewLanguageFilter()
	})
}
