package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soracane/voxboard/internal/app/filter"
	"github.com/soracane/voxboard/internal/app/notification"
	"github.com/soracane/voxboard/internal/app/playback"
	"github.com/soracane/voxboard/internal/app/search"
	"github.com/soracane/voxboard/internal/infra/audiosim"
	"github.com/soracane/voxboard/internal/infra/fixtures"
)

var testFixtures = []byte(`
voices:
  - id: v-aria
    name: Aria
    language: en-US
    styles: [conversational, narration]
    premium: true
    description: Warm mid-range voice
clips:
  - id: c-001
    title: Welcome greeting
    text: Hello and welcome to the dashboard
    voice_id: v-aria
    category: conversational
    tags: [greeting, onboarding]
    duration_seconds: 4.5
    audio_url: /audio/c-001.mp3
    created_at: 2026-02-10T09:00:00Z
  - id: c-002
    title: Product promo
    text: Try our new premium voices today
    voice_id: v-aria
    category: promo
    tags: [marketing]
    duration_seconds: 12
    audio_url: /audio/c-002.mp3
    created_at: 2026-02-11T10:30:00Z
usage:
  character_quota: 100000
  points:
    - date: 2026-02-10
      characters: 1200
      requests: 4
      audio_seconds: 38
`)

type testEnv struct {
	handler *Handler
	server  *httptest.Server
	coord   *playback.Coordinator
	toasts  *notification.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := fixtures.LoadBytes(testFixtures, fixtures.Config{})
	require.NoError(t, err)

	factory := audiosim.NewFactory(audiosim.Config{
		MetadataDelay:    time.Millisecond,
		ProgressInterval: 5 * time.Millisecond,
	}, store.DurationForLocator)

	coord := playback.NewCoordinator(factory)
	toasts := notification.NewManager(time.Minute)
	searcher := search.NewSearcher(store, filter.NewChain())

	h := NewHandler(store, coord, toasts, searcher, 10*time.Millisecond)
	srv := httptest.NewServer(h.Routes())

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	t.Cleanup(func() {
		srv.Close()
		cancel()
		coord.Close()
		toasts.Close()
	})

	return &testEnv{handler: h, server: srv, coord: coord, toasts: toasts}
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(e.server.URL+path, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/healthz")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListVoices(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/v1/voices")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[voiceListResponse](t, resp)
	require.Len(t, body.Voices, 1)
	assert.Equal(t, "v-aria", body.Voices[0].ID)
	assert.True(t, body.Voices[0].Premium)
}

func TestListClips(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/v1/clips")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[clipListResponse](t, resp)
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Clips, 2)
	assert.Equal(t, "Aria", body.Clips[0].VoiceName)
	assert.Equal(t, "0:05", body.Clips[0].DurationDisplay)
}

func TestGetUsage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/v1/usage")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[usageJSON](t, resp)
	assert.Equal(t, 100000, body.CharacterQuota)
	assert.Equal(t, 1200, body.TotalCharacters)
	require.Len(t, body.Points, 1)
	assert.Equal(t, "2026-02-10", body.Points[0].Date)
}

func TestGetPlayback_InitiallyIdle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/v1/playback")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decodeBody[snapshotJSON](t, resp)
	assert.Equal(t, "idle", snap.State)
	assert.False(t, snap.Playing)
	assert.Empty(t, snap.ActiveClipID)
	assert.Equal(t, "0:00", snap.PositionDisplay)
}

func TestPlayClip(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/v1/playback/play", playRequest{ClipID: "c-001"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decodeBody[snapshotJSON](t, resp)
	assert.Equal(t, "c-001", snap.ActiveClipID)
	assert.Equal(t, "playing", snap.State)
	assert.True(t, snap.Playing)
}

func TestPlayClip_ToggleOnSameClip(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/v1/playback/play", playRequest{ClipID: "c-002"})
	_ = decodeBody[snapshotJSON](t, resp)

	resp = env.post(t, "/api/v1/playback/play", playRequest{ClipID: "c-002"})
	snap := decodeBody[snapshotJSON](t, resp)
	assert.Equal(t, "c-002", snap.ActiveClipID)
	assert.Equal(t, "paused", snap.State)

	resp = env.post(t, "/api/v1/playback/play", playRequest{ClipID: "c-002"})
	snap = decodeBody[snapshotJSON](t, resp)
	assert.Equal(t, "playing", snap.State)
}

func TestPlayClip_UnknownClip(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/v1/playback/play", playRequest{ClipID: "c-nope"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.NotEmpty(t, body.Error)
}

func TestPlayClip_MissingClipID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/v1/playback/play", map[string]string{})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPauseAndStop(t *testing.T) {
	env := newTestEnv(t)

	_ = decodeBody[snapshotJSON](t, env.post(t, "/api/v1/playback/play", playRequest{ClipID: "c-002"}))

	snap := decodeBody[snapshotJSON](t, env.post(t, "/api/v1/playback/pause", nil))
	assert.Equal(t, "paused", snap.State)

	snap = decodeBody[snapshotJSON](t, env.post(t, "/api/v1/playback/stop", nil))
	assert.Equal(t, "idle", snap.State)
	assert.Empty(t, snap.ActiveClipID)
	assert.Zero(t, snap.PositionSeconds)
}

func TestSeek_ClampsIntoClip(t *testing.T) {
	env := newTestEnv(t)

	_ = decodeBody[snapshotJSON](t, env.post(t, "/api/v1/playback/play", playRequest{ClipID: "c-002"}))

	// Wait for the simulated source to resolve the clip duration
	require.Eventually(t, func() bool {
		return env.coord.Snapshot().Duration > 0
	}, time.Second, 5*time.Millisecond)

	// Pause so the source clock stands still while we assert positions
	_ = decodeBody[snapshotJSON](t, env.post(t, "/api/v1/playback/pause", nil))

	pos := 9999.0
	snap := decodeBody[snapshotJSON](t, env.post(t, "/api/v1/playback/seek", seekRequest{PositionSeconds: &pos}))
	assert.InDelta(t, 12.0, snap.PositionSeconds, 0.01)

	neg := -3.0
	snap = decodeBody[snapshotJSON](t, env.post(t, "/api/v1/playback/seek", seekRequest{PositionSeconds: &neg}))
	assert.Zero(t, snap.PositionSeconds)
}

func TestToastLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/v1/toasts", toastRequest{Level: "success", Message: "Clip saved"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[notification.Toast](t, resp)
	assert.Equal(t, notification.LevelSuccess, created.Level)
	assert.NotEmpty(t, created.ID)

	list := decodeBody[toastListResponse](t, env.get(t, "/api/v1/toasts"))
	require.Len(t, list.Toasts, 1)

	req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/api/v1/toasts/"+created.ID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = delResp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	list = decodeBody[toastListResponse](t, env.get(t, "/api/v1/toasts"))
	assert.Empty(t, list.Toasts)
}

func TestPushToast_InvalidLevel(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/v1/toasts", toastRequest{Level: "fatal", Message: "nope"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDismissToast_Unknown(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/api/v1/toasts/nope", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListClips_FilteredByQueryParams(t *testing.T) {
	env := newTestEnv(t)

	chain := filter.NewChain()
	for _, factory := range filter.GetRegistered() {
		chain.Add(factory())
	}
	env.handler.searcher = search.NewSearcher(env.handler.store, chain)

	resp := env.get(t, "/api/v1/clips?category=promo")
	body := decodeBody[clipListResponse](t, resp)
	require.Len(t, body.Clips, 1)
	assert.Equal(t, "c-002", body.Clips[0].ID)

	resp = env.get(t, "/api/v1/clips?q=welcome")
	body = decodeBody[clipListResponse](t, resp)
	require.Len(t, body.Clips, 1)
	assert.Equal(t, "c-001", body.Clips[0].ID)
}
