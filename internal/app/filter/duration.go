package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/soracane/voxboard/internal/domain/clip"
)

// DurationConfig represents the configuration for DurationFilter.
type DurationConfig struct {
	MinSeconds float64 `yaml:"min_seconds" mapstructure:"min_seconds" default:"0" validate:"gte=0"`
	MaxSeconds float64 `yaml:"max_seconds" mapstructure:"max_seconds" validate:"gte=0"`
}

// DurationFilter hides clips whose length falls outside configured
// bounds. A zero max means no upper limit.
type DurationFilter struct {
	config *DurationConfig
}

// NewDurationFilter creates a new duration filter.
func NewDurationFilter() *DurationFilter {
	return &DurationFilter{}
}

func (f *DurationFilter) Name() string {
	return "duration_filter"
}

func (f *DurationFilter) Description() string {
	return "Hides clips outside configured duration bounds"
}

func (f *DurationFilter) ValidateConfig(settings map[string]any) error {
	var config DurationConfig

	if err := mapstructure.Decode(settings, &config); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	if config.MaxSeconds > 0 && config.MinSeconds > config.MaxSeconds {
		return errors.New("min_seconds cannot be greater than max_seconds")
	}

	f.config = &config
	return nil
}

func (f *DurationFilter) Matches(ctx context.Context, q Query, c clip.Clip) bool {
	// Without config, every clip is visible
	if f.config == nil {
		return true
	}

	seconds := c.Duration.Seconds()
	if seconds < f.config.MinSeconds {
		return false
	}
	if f.config.MaxSeconds > 0 && seconds > f.config.MaxSeconds {
		return false
	}
	return true
}

func init() {
	Register("duration_filter", func() Filter {
		return NewDurationFilter()
	})
}
