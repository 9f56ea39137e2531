// Package filter provides the filter chain for catalog search.
package filter

import (
	"context"

	"github.com/soracane/voxboard/internal/domain/clip"
)

// Query represents a catalog search request.
type Query struct {
	Text     string // Free-text search, empty matches everything
	Category string // Category constraint, empty matches everything
	Language string // Language tag constraint, empty matches everything
}

// Filter is the interface for catalog filters. A filter decides whether a
// clip is visible for a given query.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// Matches reports whether the clip is visible for the query.
	Matches(ctx context.Context, q Query, c clip.Clip) bool
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}
