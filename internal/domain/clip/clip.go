// Package clip provides the Clip domain entity.
package clip

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies what a generated clip is for.
type Category string

const (
	CategoryConversational Category = "conversational"
	CategoryNarration      Category = "narration"
	CategoryPromo          Category = "promo"
	CategoryAccessibility  Category = "accessibility"
)

// Categories lists all known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryConversational,
		CategoryNarration,
		CategoryPromo,
		CategoryAccessibility,
	}
}

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryConversational, CategoryNarration, CategoryPromo, CategoryAccessibility:
		return true
	}
	return false
}

// Clip represents a generated voice sample.
type Clip struct {
	ID        string        // Clip ID
	Title     string        // Display title
	Text      string        // Source text the sample was generated from
	VoiceID   string        // Generating voice ID
	VoiceName string        // Generating voice display name
	Language  string        // Generating voice language tag
	Category  Category      // Clip category
	Tags      []string      // Free-form tags
	Duration  time.Duration // Clip length
	AudioURL  string        // Playable resource locator
	CreatedAt time.Time     // Generation time
}

// HasTag checks if the clip carries the given tag (case-insensitive).
func (c *Clip) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// MatchesText reports whether the query matches the clip's title, text,
// voice name or any tag (case-insensitive substring match).
func (c *Clip) MatchesText(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Text), q) {
		return true
	}
	if strings.Contains(strings.ToLower(c.VoiceName), q) {
		return true
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// FormatClock formats a duration as m:ss, or h:mm:ss for durations of an
// hour or more. Negative durations render as 0:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
