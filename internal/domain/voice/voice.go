// Package voice provides the Voice domain entity.
package voice

import "strings"

// Voice represents a synthetic voice model.
type Voice struct {
	ID          string   // Voice ID
	Name        string   // Display name
	Language    string   // BCP 47 language tag, e.g. "en-US"
	Styles      []string // Supported speaking styles
	Premium     bool     // Premium-tier voice
	Description string   // Short marketing blurb
}

// SupportsStyle checks if the voice supports the given speaking style.
func (v *Voice) SupportsStyle(style string) bool {
	for _, s := range v.Styles {
		if strings.EqualFold(s, style) {
			return true
		}
	}
	return false
}

// MatchesLanguage reports whether the voice's language matches the given
// tag. A bare primary tag ("en") matches any region ("en-US", "en-GB").
func (v *Voice) MatchesLanguage(tag string) bool {
	return LanguageMatches(v.Language, tag)
}

// LanguageMatches reports whether a BCP 47 language tag satisfies the
// requested tag. An empty request matches everything; a bare primary tag
// ("en") matches any region ("en-US", "en-GB"). Clips inherit their
// voice's language, so catalog filtering uses the same rule.
func LanguageMatches(language, tag string) bool {
	if tag == "" {
		return true
	}
	lang := strings.ToLower(language)
	t := strings.ToLower(tag)
	if lang == t {
		return true
	}
	return strings.HasPrefix(lang, t+"-")
}
