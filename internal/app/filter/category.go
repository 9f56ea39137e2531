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

// CategoryConfig represents the configuration for CategoryFilter.
type CategoryConfig struct {
	Hidden []string `yaml:"hidden" mapstructure:"hidden" validate:"dive,oneof=conversational narration promo accessibility"`
}

// CategoryFilter matches clips against the query's category and hides
// categories excluded by configuration.
type CategoryFilter struct {
	config *CategoryConfig
}

// NewCategoryFilter creates a new category filter.
func NewCategoryFilter() *CategoryFilter {
	return &CategoryFilter{}
}

func (f *CategoryFilter) Name() string {
	return "category_filter"
}

func (f *CategoryFilter) Description() string {
	return "Matches clips against the selected category"
}

func (f *CategoryFilter) ValidateConfig(settings map[string]any) error {
	var config CategoryConfig

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

func (f *CategoryFilter) Matches(ctx context.Context, q Query, c clip.Clip) bool {
	if f.config != nil {
		for _, hidden := range f.config.Hidden {
			if strings.EqualFold(hidden, string(c.Category)) {
				return false
			}
		}
	}

	if q.Category == "" {
		return true
	}
	return strings.EqualFold(q.Category, string(c.Category))
}

func init() {
	Register("category_filter", func() Filter {
		return NewCategoryFilter()
	})
}
