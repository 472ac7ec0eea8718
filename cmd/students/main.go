// main is the entry point of the student record console.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the snapshot backend and load the roster from it
//  4. Run the interactive menu on stdin/stdout in a separate goroutine
//  5. Block until the menu exits or an OS signal (Ctrl+C / kill) arrives
//  6. Close the roster: write a final snapshot, release the backend
//
// RUNNING:
//
//	go run ./cmd/students --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/console"
	"github.com/aanand-mishra/student-records/internal/roster"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
	"github.com/aanand-mishra/student-records/internal/storage/yamlfile"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Logs go to stderr so they never interleave with the menu on stdout.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student records",
		slog.String("env", cfg.Env),
		slog.String("format", cfg.Format),
	)

	// ── 3. Open Storage and Load the Roster ───────────────────────────────
	backend, err := newStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := roster.Open(backend,
		roster.WithLogger(log),
		roster.WithStrictLoad(cfg.StrictLoad),
	)
	if err != nil {
		log.Error("failed to load roster",
			slog.String("path", cfg.StoragePath),
			slog.String("error", err.Error()))
		backend.Close()
		os.Exit(1)
	}

	log.Info("roster ready",
		slog.String("path", cfg.StoragePath),
		slog.Int("students", store.Count()))

	// ── 4. Run the Menu ───────────────────────────────────────────────────
	finished := make(chan error, 1)
	go func() {
		finished <- console.New(store, os.Stdin, os.Stdout).Run()
	}()

	// ── 5. Wait for Exit or Signal ────────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-finished:
		if err != nil {
			log.Error("console stopped", slog.String("error", err.Error()))
			exitCode = 1
		}
	case sig := <-done:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	// ── 6. Final Save ─────────────────────────────────────────────────────
	if err := store.Close(); err != nil {
		log.Error("failed to close roster", slog.String("error", err.Error()))
		exitCode = 1
	}

	log.Info("roster closed")
	os.Exit(exitCode)
}

// newStorage picks the snapshot backend named in the config and makes sure
// the directory holding the snapshot file exists.
func newStorage(cfg *config.Config) (storage.Storage, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	switch cfg.Format {
	case config.FormatYAML:
		return yamlfile.New(cfg), nil
	default:
		return sqlite.New(cfg)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
