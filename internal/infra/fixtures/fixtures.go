// Package fixtures provides the synthetic data source backing the
// dashboard. All data is in-memory fixture content; reads go through a
// simulated network latency and error injection wrapper so the UI layer
// behaves as it would against a real backend.
package fixtures

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/soracane/voxboard/internal/domain/clip"
	"github.com/soracane/voxboard/internal/domain/usage"
	"github.com/soracane/voxboard/internal/domain/voice"
)

// fixtureFile is the on-disk YAML schema.
type fixtureFile struct {
	Voices []voiceFixture `yaml:"voices"`
	Clips  []clipFixture  `yaml:"clips"`
	Usage  usageFixture   `yaml:"usage"`
}

type voiceFixture struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Language    string   `yaml:"language"`
	Styles      []string `yaml:"styles"`
	Premium     bool     `yaml:"premium"`
	Description string   `yaml:"description"`
}

type clipFixture struct {
	ID              string    `yaml:"id"`
	Title           string    `yaml:"title"`
	Text            string    `yaml:"text"`
	VoiceID         string    `yaml:"voice_id"`
	Category        string    `yaml:"category"`
	Tags            []string  `yaml:"tags"`
	DurationSeconds float64   `yaml:"duration_seconds"`
	AudioURL        string    `yaml:"audio_url"`
	CreatedAt       time.Time `yaml:"created_at"`
}

type usageFixture struct {
	CharacterQuota int            `yaml:"character_quota"`
	Points         []usagePoint   `yaml:"points"`
}

type usagePoint struct {
	Date         time.Time `yaml:"date"`
	Characters   int       `yaml:"characters"`
	Requests     int       `yaml:"requests"`
	AudioSeconds float64   `yaml:"audio_seconds"`
}

// parse decodes and cross-checks a fixture document.
func parse(data []byte) (*fixtureFile, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse fixture file")
	}

	voiceIDs := make(map[string]bool, len(f.Voices))
	for i, v := range f.Voices {
		if v.ID == "" || v.Name == "" {
			return nil, errors.Newf("voice %d: id and name are required", i)
		}
		if voiceIDs[v.ID] {
			return nil, errors.Newf("duplicate voice id %q", v.ID)
		}
		voiceIDs[v.ID] = true
	}

	clipIDs := make(map[string]bool, len(f.Clips))
	for i, c := range f.Clips {
		if c.ID == "" || c.AudioURL == "" {
			return nil, errors.Newf("clip %d: id and audio_url are required", i)
		}
		if clipIDs[c.ID] {
			return nil, errors.Newf("duplicate clip id %q", c.ID)
		}
		clipIDs[c.ID] = true
		if !voiceIDs[c.VoiceID] {
			return nil, errors.Newf("clip %q references unknown voice %q", c.ID, c.VoiceID)
		}
		if !clip.Category(c.Category).Valid() {
			return nil, errors.Newf("clip %q has unknown category %q", c.ID, c.Category)
		}
		if c.DurationSeconds <= 0 {
			return nil, errors.Newf("clip %q must have a positive duration", c.ID)
		}
	}

	return &f, nil
}

func (f *fixtureFile) voices() []voice.Voice {
	result := make([]voice.Voice, 0, len(f.Voices))
	for _, v := range f.Voices {
		result = append(result, voice.Voice{
			ID:          v.ID,
			Name:        v.Name,
			Language:    v.Language,
			Styles:      v.Styles,
			Premium:     v.Premium,
			Description: v.Description,
		})
	}
	return result
}

func (f *fixtureFile) clips() []clip.Clip {
	byID := make(map[string]voiceFixture, len(f.Voices))
	for _, v := range f.Voices {
		byID[v.ID] = v
	}

	result := make([]clip.Clip, 0, len(f.Clips))
	for _, c := range f.Clips {
		result = append(result, clip.Clip{
			ID:        c.ID,
			Title:     c.Title,
			Text:      c.Text,
			VoiceID:   c.VoiceID,
			VoiceName: byID[c.VoiceID].Name,
			Language:  byID[c.VoiceID].Language,
			Category:  clip.Category(c.Category),
			Tags:      c.Tags,
			Duration:  time.Duration(c.DurationSeconds * float64(time.Second)),
			AudioURL:  c.AudioURL,
			CreatedAt: c.CreatedAt,
		})
	}
	return result
}

func (f *fixtureFile) report() usage.Report {
	points := make([]usage.Point, 0, len(f.Usage.Points))
	for _, p := range f.Usage.Points {
		points = append(points, usage.Point{
			Date:       p.Date,
			Characters: p.Characters,
			Requests:   p.Requests,
			Audio:      time.Duration(p.AudioSeconds * float64(time.Second)),
		})
	}
	return usage.Report{
		Points:         points,
		CharacterQuota: f.Usage.CharacterQuota,
	}
}

// readFixtureFile loads and parses a fixture document from disk.
func readFixtureFile(path string) (*fixtureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read fixture file")
	}
	return parse(data)
}
