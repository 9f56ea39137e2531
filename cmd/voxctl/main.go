// Package main provides the voxctl CLI for driving the dashboard API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

var (
	app    = kingpin.New("voxctl", "voxboard dashboard client for testing")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()

	// status command
	statusCmd = app.Command("status", "Show the current playback state")

	// voices command
	voicesCmd = app.Command("voices", "List available voices")

	// clips command
	clipsCmd      = app.Command("clips", "List clips")
	clipsQuery    = clipsCmd.Flag("query", "Free-text search").Short('q').String()
	clipsCategory = clipsCmd.Flag("category", "Category filter").String()
	clipsLanguage = clipsCmd.Flag("language", "Language filter").String()

	// usage command
	usageCmd = app.Command("usage", "Show usage statistics")

	// play command
	playCmd    = app.Command("play", "Play a clip (toggles if already active)")
	playClipID = playCmd.Arg("clip-id", "Clip ID").Required().String()

	// pause command
	pauseCmd = app.Command("pause", "Pause playback")

	// stop command
	stopCmd = app.Command("stop", "Stop playback")

	// seek command
	seekCmd      = app.Command("seek", "Seek within the active clip")
	seekPosition = seekCmd.Arg("seconds", "Position in seconds").Required().Float64()

	// toast command
	toastCmd     = app.Command("toast", "Push a toast notification")
	toastLevel   = toastCmd.Flag("level", "Toast level").Default("info").Enum("info", "success", "warning", "error")
	toastMessage = toastCmd.Arg("message", "Toast message").Required().String()

	// watch command
	watchCmd = app.Command("watch", "Stream playback and toast events")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	switch command {
	case statusCmd.FullCommand():
		status()
	case voicesCmd.FullCommand():
		voices()
	case clipsCmd.FullCommand():
		clips()
	case usageCmd.FullCommand():
		showUsage()
	case playCmd.FullCommand():
		playback("play", map[string]any{"clip_id": *playClipID})
	case pauseCmd.FullCommand():
		playback("pause", nil)
	case stopCmd.FullCommand():
		playback("stop", nil)
	case seekCmd.FullCommand():
		playback("seek", map[string]any{"position_seconds": *seekPosition})
	case toastCmd.FullCommand():
		pushToast()
	case watchCmd.FullCommand():
		watch()
	}
}

type snapshot struct {
	ActiveClipID    string  `json:"active_clip_id"`
	State           string  `json:"state"`
	PositionDisplay string  `json:"position_display"`
	DurationDisplay string  `json:"duration_display"`
	PositionSeconds float64 `json:"position_seconds"`
}

type apiError struct {
	Error string `json:"error"`
}

func get(path string, out any) {
	resp, err := http.Get(*server + path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	decode(resp, out)
}

func post(path string, body any, out any) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	resp, err := http.Post(*server+path, "application/json", &buf)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	decode(resp, out)
}

func decode(resp *http.Response, out any) {
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		var apiErr apiError
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			fmt.Printf("Error [%d]: %s\n", resp.StatusCode, apiErr.Error)
		} else {
			fmt.Printf("Error [%d]: %s\n", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		os.Exit(1)
	}
	if out == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func formatState(snap snapshot) string {
	switch snap.State {
	case "playing":
		return fmt.Sprintf("▶️  Playing %s [%s / %s]", snap.ActiveClipID, snap.PositionDisplay, snap.DurationDisplay)
	case "paused":
		return fmt.Sprintf("⏸  Paused %s [%s / %s]", snap.ActiveClipID, snap.PositionDisplay, snap.DurationDisplay)
	case "idle":
		return "⏹  Idle"
	default:
		return "❓ Unknown"
	}
}

func status() {
	var snap snapshot
	get("/api/v1/playback", &snap)
	fmt.Println(formatState(snap))
}

func voices() {
	var resp struct {
		Voices []struct {
			ID       string   `json:"id"`
			Name     string   `json:"name"`
			Language string   `json:"language"`
			Styles   []string `json:"styles"`
			Premium  bool     `json:"premium"`
		} `json:"voices"`
	}
	get("/api/v1/voices", &resp)

	fmt.Printf("Voices (%d):\n", len(resp.Voices))
	for _, v := range resp.Voices {
		premium := ""
		if v.Premium {
			premium = " ⭐"
		}
		fmt.Printf("  %-10s %-12s %s [%s]%s\n", v.ID, v.Name, v.Language, strings.Join(v.Styles, ", "), premium)
	}
}

func clips() {
	q := url.Values{}
	if *clipsQuery != "" {
		q.Set("q", *clipsQuery)
	}
	if *clipsCategory != "" {
		q.Set("category", *clipsCategory)
	}
	if *clipsLanguage != "" {
		q.Set("language", *clipsLanguage)
	}

	path := "/api/v1/clips"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Clips []struct {
			ID              string `json:"id"`
			Title           string `json:"title"`
			VoiceName       string `json:"voice_name"`
			Category        string `json:"category"`
			DurationDisplay string `json:"duration_display"`
		} `json:"clips"`
		Total int `json:"total"`
	}
	get(path, &resp)

	fmt.Printf("Clips (%d):\n", resp.Total)
	for _, c := range resp.Clips {
		fmt.Printf("  %-10s %-6s %-14s %-10s %s\n", c.ID, c.DurationDisplay, c.Category, c.VoiceName, c.Title)
	}
}

func showUsage() {
	var resp struct {
		CharacterQuota  int     `json:"character_quota"`
		TotalCharacters int     `json:"total_characters"`
		TotalRequests   int     `json:"total_requests"`
		TotalAudio      float64 `json:"total_audio_seconds"`
		QuotaUsed       float64 `json:"quota_used"`
	}
	get("/api/v1/usage", &resp)

	fmt.Printf("Characters: %d / %d (%.1f%%)\n", resp.TotalCharacters, resp.CharacterQuota, resp.QuotaUsed*100)
	fmt.Printf("Requests:   %d\n", resp.TotalRequests)
	fmt.Printf("Audio:      %.1fs\n", resp.TotalAudio)
}

func playback(action string, body any) {
	var snap snapshot
	post("/api/v1/playback/"+action, body, &snap)
	fmt.Println(formatState(snap))
}

func pushToast() {
	var toast struct {
		ID string `json:"id"`
	}
	post("/api/v1/toasts", map[string]any{
		"level":   *toastLevel,
		"message": *toastMessage,
	}, &toast)
	fmt.Printf("Pushed toast %s\n", toast.ID)
}

// watch streams server events over the websocket until interrupted.
func watch() {
	wsURL := strings.Replace(*server, "http", "ws", 1) + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.Close()
		os.Exit(0)
	}()

	fmt.Println("Watching events (Ctrl+C to stop)...")
	for {
		var msg struct {
			Type     string    `json:"type"`
			Event    string    `json:"event"`
			Snapshot *snapshot `json:"snapshot"`
			Toast    *struct {
				Level   string `json:"level"`
				Message string `json:"message"`
			} `json:"toast"`
			Error string `json:"error"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			fmt.Printf("Connection closed: %v\n", err)
			return
		}

		switch msg.Type {
		case "playback":
			line := formatState(*msg.Snapshot)
			if msg.Error != "" {
				line += " (" + msg.Error + ")"
			}
			fmt.Printf("[%s] %s\n", msg.Event, line)
		case "toast":
			fmt.Printf("[%s] 🔔 %s: %s\n", msg.Event, msg.Toast.Level, msg.Toast.Message)
		default:
			fmt.Printf("[%s/%s]\n", msg.Type, msg.Event)
		}
	}
}
