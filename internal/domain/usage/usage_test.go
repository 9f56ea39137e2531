package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testReport(quota int) *Report {
	return &Report{
		CharacterQuota: quota,
		Points: []Point{
			{Date: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), Characters: 1200, Requests: 4, Audio: 38 * time.Second},
			{Date: time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), Characters: 800, Requests: 3, Audio: 22 * time.Second},
			{Date: time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), Characters: 2000, Requests: 6, Audio: 61 * time.Second},
		},
	}
}

func TestReport_Totals(t *testing.T) {
	r := testReport(10000)

	assert.Equal(t, 4000, r.TotalCharacters())
	assert.Equal(t, 13, r.TotalRequests())
	assert.Equal(t, 121*time.Second, r.TotalAudio())
}

func TestReport_Totals_Empty(t *testing.T) {
	r := &Report{CharacterQuota: 10000}

	assert.Zero(t, r.TotalCharacters())
	assert.Zero(t, r.TotalRequests())
	assert.Zero(t, r.TotalAudio())
	assert.Zero(t, r.QuotaUsed())
}

func TestReport_QuotaUsed(t *testing.T) {
	tests := []struct {
		name  string
		quota int
		want  float64
	}{
		{name: "partial use", quota: 10000, want: 0.4},
		{name: "over quota caps at one", quota: 2000, want: 1},
		{name: "zero quota", quota: 0, want: 0},
		{name: "negative quota", quota: -5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, testReport(tt.quota).QuotaUsed(), 0.0001)
		})
	}
}
