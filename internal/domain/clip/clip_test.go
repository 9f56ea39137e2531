package clip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %q should be valid", c)
	}
	assert.False(t, Category("podcast").Valid())
	assert.False(t, Category("").Valid())
}

func TestClip_HasTag(t *testing.T) {
	c := Clip{Tags: []string{"Greeting", "onboarding"}}

	assert.True(t, c.HasTag("greeting"))
	assert.True(t, c.HasTag("ONBOARDING"))
	assert.False(t, c.HasTag("promo"))
	assert.False(t, c.HasTag(""))
}

func TestClip_MatchesText(t *testing.T) {
	c := Clip{
		Title:     "Welcome greeting",
		Text:      "Hello and welcome to the dashboard",
		VoiceName: "Aria",
		Tags:      []string{"onboarding"},
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "empty query matches", query: "", want: true},
		{name: "whitespace query matches", query: "   ", want: true},
		{name: "title substring", query: "WELCOME", want: true},
		{name: "text substring", query: "dashboard", want: true},
		{name: "voice name", query: "aria", want: true},
		{name: "tag substring", query: "board", want: true},
		{name: "no match", query: "farewell", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.MatchesText(tt.query))
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "zero", d: 0, want: "0:00"},
		{name: "negative clamps to zero", d: -5 * time.Second, want: "0:00"},
		{name: "sub-second rounds", d: 400 * time.Millisecond, want: "0:00"},
		{name: "half second rounds up", d: 500 * time.Millisecond, want: "0:01"},
		{name: "seconds only", d: 42 * time.Second, want: "0:42"},
		{name: "minutes and seconds", d: 3*time.Minute + 7*time.Second, want: "3:07"},
		{name: "exactly one hour", d: time.Hour, want: "1:00:00"},
		{name: "hours", d: 2*time.Hour + 4*time.Minute + 9*time.Second, want: "2:04:09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.d))
		})
	}
}
