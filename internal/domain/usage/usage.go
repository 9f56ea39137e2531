// Package usage provides synthetic usage metrics for the dashboard.
package usage

import "time"

// Point represents one day of usage.
type Point struct {
	Date       time.Time     // Day (UTC midnight)
	Characters int           // Characters synthesized
	Requests   int           // Generation requests
	Audio      time.Duration // Audio produced
}

// Report represents the usage report shown on the dashboard.
type Report struct {
	Points         []Point // Daily points, oldest first
	CharacterQuota int     // Plan character quota for the period
}

// TotalCharacters returns the characters synthesized across all points.
func (r *Report) TotalCharacters() int {
	var total int
	for _, p := range r.Points {
		total += p.Characters
	}
	return total
}

// TotalRequests returns the request count across all points.
func (r *Report) TotalRequests() int {
	var total int
	for _, p := range r.Points {
		total += p.Requests
	}
	return total
}

// TotalAudio returns the audio duration produced across all points.
func (r *Report) TotalAudio() time.Duration {
	var total time.Duration
	for _, p := range r.Points {
		total += p.Audio
	}
	return total
}

// QuotaUsed returns the fraction of the character quota consumed, in [0, 1].
func (r *Report) QuotaUsed() float64 {
	if r.CharacterQuota <= 0 {
		return 0
	}
	used := float64(r.TotalCharacters()) / float64(r.CharacterQuota)
	if used > 1 {
		return 1
	}
	return used
}
