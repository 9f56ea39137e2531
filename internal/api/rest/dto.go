package rest

import (
	"time"

	"github.com/soracane/voxboard/internal/app/playback"
	"github.com/soracane/voxboard/internal/domain/clip"
	"github.com/soracane/voxboard/internal/domain/usage"
	"github.com/soracane/voxboard/internal/domain/voice"
)

// playRequest is the body of POST /playback/play.
type playRequest struct {
	ClipID string `json:"clip_id" validate:"required"`
}

// seekRequest is the body of POST /playback/seek.
type seekRequest struct {
	// Out-of-range values are clamped by the coordinator, not rejected
	PositionSeconds *float64 `json:"position_seconds" validate:"required"`
}

// toastRequest is the body of POST /toasts.
type toastRequest struct {
	Level   string `json:"level" validate:"required,oneof=info success warning error"`
	Message string `json:"message" validate:"required,max=500"`
}

// searchOp is a search submission sent by a websocket client.
type searchOp struct {
	Op       string `json:"op" validate:"required,oneof=search"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Language string `json:"language"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// snapshotJSON is the wire form of the playback read model.
type snapshotJSON struct {
	ActiveClipID    string  `json:"active_clip_id"`
	State           string  `json:"state"`
	Playing         bool    `json:"playing"`
	PositionSeconds float64 `json:"position_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
	PositionDisplay string  `json:"position_display"`
	DurationDisplay string  `json:"duration_display"`
}

func toSnapshotJSON(s playback.Snapshot) snapshotJSON {
	return snapshotJSON{
		ActiveClipID:    s.ActiveClipID,
		State:           s.State.String(),
		Playing:         s.IsPlaying(),
		PositionSeconds: s.Position.Seconds(),
		DurationSeconds: s.Duration.Seconds(),
		PositionDisplay: clip.FormatClock(s.Position),
		DurationDisplay: clip.FormatClock(s.Duration),
	}
}

// clipJSON is the wire form of a clip.
type clipJSON struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Text            string    `json:"text"`
	VoiceID         string    `json:"voice_id"`
	VoiceName       string    `json:"voice_name"`
	Language        string    `json:"language"`
	Category        string    `json:"category"`
	Tags            []string  `json:"tags"`
	DurationSeconds float64   `json:"duration_seconds"`
	DurationDisplay string    `json:"duration_display"`
	AudioURL        string    `json:"audio_url"`
	CreatedAt       time.Time `json:"created_at"`
}

func toClipJSON(c clip.Clip) clipJSON {
	return clipJSON{
		ID:              c.ID,
		Title:           c.Title,
		Text:            c.Text,
		VoiceID:         c.VoiceID,
		VoiceName:       c.VoiceName,
		Language:        c.Language,
		Category:        string(c.Category),
		Tags:            c.Tags,
		DurationSeconds: c.Duration.Seconds(),
		DurationDisplay: clip.FormatClock(c.Duration),
		AudioURL:        c.AudioURL,
		CreatedAt:       c.CreatedAt,
	}
}

func toClipListJSON(clips []clip.Clip) []clipJSON {
	result := make([]clipJSON, 0, len(clips))
	for _, c := range clips {
		result = append(result, toClipJSON(c))
	}
	return result
}

// voiceJSON is the wire form of a voice.
type voiceJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Styles      []string `json:"styles"`
	Premium     bool     `json:"premium"`
	Description string   `json:"description"`
}

func toVoiceListJSON(voices []voice.Voice) []voiceJSON {
	result := make([]voiceJSON, 0, len(voices))
	for _, v := range voices {
		result = append(result, voiceJSON{
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

// usageJSON is the wire form of the usage report.
type usageJSON struct {
	CharacterQuota  int              `json:"character_quota"`
	TotalCharacters int              `json:"total_characters"`
	TotalRequests   int              `json:"total_requests"`
	TotalAudio      float64          `json:"total_audio_seconds"`
	QuotaUsed       float64          `json:"quota_used"`
	Points          []usagePointJSON `json:"points"`
}

type usagePointJSON struct {
	Date         string  `json:"date"`
	Characters   int     `json:"characters"`
	Requests     int     `json:"requests"`
	AudioSeconds float64 `json:"audio_seconds"`
}

func toUsageJSON(r *usage.Report) usageJSON {
	points := make([]usagePointJSON, 0, len(r.Points))
	for _, p := range r.Points {
		points = append(points, usagePointJSON{
			Date:         p.Date.Format("2006-01-02"),
			Characters:   p.Characters,
			Requests:     p.Requests,
			AudioSeconds: p.Audio.Seconds(),
		})
	}
	return usageJSON{
		CharacterQuota:  r.CharacterQuota,
		TotalCharacters: r.TotalCharacters(),
		TotalRequests:   r.TotalRequests(),
		TotalAudio:      r.TotalAudio().Seconds(),
		QuotaUsed:       r.QuotaUsed(),
		Points:          points,
	}
}
