package filter

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/soracane/voxboard/internal/domain/clip"
)

// KeywordConfig represents the configuration for KeywordFilter.
type KeywordConfig struct {
	MinLength int `yaml:"min_length" mapstructure:"min_length" default:"2" validate:"gte=1,lte=10"`
}

// KeywordFilter matches clips against the query's free text. Queries
// shorter than the configured minimum are treated as no constraint, the
// same way the search box ignores a single typed character.
type KeywordFilter struct {
	config *KeywordConfig
}

// NewKeywordFilter creates a new keyword filter.
func NewKeywordFilter() *KeywordFilter {
	return &KeywordFilter{}
}

func (f *KeywordFilter) Name() string {
	return "keyword_filter"
}

func (f *KeywordFilter) Description() string {
	return "Matches clips against free-text search"
}

func (f *KeywordFilter) ValidateConfig(settings map[string]any) error {
	var config KeywordConfig

	if err := mapstructure.Decode(settings, &config); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	f.config = &config
	return nil
}

func (f *KeywordFilter) Matches(ctx context.Context, q Query, c clip.Clip) bool {
	text := strings.TrimSpace(q.Text)
	minLength := 2
	if f.config != nil {
		minLength = f.config.MinLength
	}
	if len(text) < minLength {
		return true
	}
	return c.MatchesText(text)
}

func init() {
	Register("keyword_filter", func() Filter {
		return NewKeywordFilter()
	})
}
