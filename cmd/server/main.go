// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/soracane/voxboard/internal/api/rest"
	"github.com/soracane/voxboard/internal/app/filter"
	"github.com/soracane/voxboard/internal/app/notification"
	"github.com/soracane/voxboard/internal/app/playback"
	"github.com/soracane/voxboard/internal/app/search"
	"github.com/soracane/voxboard/internal/infra/audiosim"
	"github.com/soracane/voxboard/internal/infra/config"
	"github.com/soracane/voxboard/internal/infra/fixtures"
	"github.com/soracane/voxboard/internal/infra/logger"
)

var (
	app        = kingpin.New("voxboard-server", "voxboard voice dashboard server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available search filters and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		// Config is optional here: without it, filters print unannotated
		cfg, _ := config.Load(*configPath)
		printFilters(cfg)
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	minDelay, maxDelay := cfg.FixtureDelays()
	store, err := fixtures.Load(cfg.Fixtures.Path, fixtures.Config{
		MinDelay:    minDelay,
		MaxDelay:    maxDelay,
		FailureRate: cfg.Fixtures.FailureRate,
	})
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}

	chain, err := filter.NewChainFromConfig(cfg.Filters)
	if err != nil {
		return fmt.Errorf("invalid filter config: %w", err)
	}

	factory := audiosim.NewFactory(audiosim.Config{
		MetadataDelay:    cfg.MetadataDelay(),
		ProgressInterval: cfg.ProgressInterval(),
	}, store.DurationForLocator)

	coord := playback.NewCoordinator(factory)
	defer coord.Close()

	toasts := notification.NewManager(cfg.ToastTTL())
	defer toasts.Close()

	searcher := search.NewSearcher(store, chain)

	handler := rest.NewHandler(store, coord, toasts, searcher, cfg.Debounce())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handler.Run(ctx)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.Routes(),
	}

	// Channel to capture server startup errors
	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for server to start listening
	<-serverStartedCh
	time.Sleep(100 * time.Millisecond)

	// Execute startup hook if configured (after server is running)
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	coord.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// printFilters prints available filters, annotated with their enabled
// state when a config is present.
func printFilters(cfg *config.Config) {
	fmt.Println("Available Filters:")
	for name, factory := range filter.GetRegistered() {
		f := factory()
		state := ""
		if cfg != nil {
			state = " [disabled]"
			if cfg.IsFilterEnabled(name) {
				state = " [enabled]"
			}
		}
		fmt.Printf("  %-20s - %s%s\n", name, f.Description(), state)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
