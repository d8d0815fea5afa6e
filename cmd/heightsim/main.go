// Command heightsim serves procedural terrain heights over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/heightfield/internal/api"
	"github.com/talgya/heightfield/internal/noise"
	"github.com/talgya/heightfield/internal/persistence"
	"github.com/talgya/heightfield/internal/terrain"
	"github.com/talgya/heightfield/internal/world"
)

const defaultPresetName = "default"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment.
	dbPath := envOrDefault("HEIGHTSIM_DB", "data/heightsim.db")
	apiPort := envIntOrDefault("HEIGHTSIM_PORT", 8080)
	seed := int64(envIntOrDefault("HEIGHTSIM_SEED", 42))
	radius := envIntOrDefault("HEIGHTSIM_RADIUS", 22)
	adminKey := os.Getenv("HEIGHTSIM_ADMIN_KEY")

	kind, err := noise.ParseKind(os.Getenv("HEIGHTSIM_NOISE"))
	if err != nil {
		slog.Error("invalid HEIGHTSIM_NOISE", "error", err)
		os.Exit(1)
	}

	slog.Info("heightsim starting",
		"noise", kind,
		"seed", seed,
		"height_scale", terrain.TerrainHeightMaxish,
	)

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	preset, err := loadOrCreatePreset(db, kind, seed)
	if err != nil {
		slog.Error("failed to prepare default preset", "error", err)
		os.Exit(1)
	}

	// ── World summary (regenerated from the seed on every start) ──
	cfg := world.DefaultGenConfig()
	cfg.Radius = radius
	cfg.Seed = preset.Seed
	cfg.Noise = preset.Noise
	cfg.Persistence = preset.Persistence
	cfg.Options = preset.Options

	started := time.Now()
	worldMap, err := world.Generate(cfg)
	if err != nil {
		slog.Error("world generation failed", "error", err)
		os.Exit(1)
	}
	summary := world.Summarize(worldMap)
	slog.Info("world sampled",
		"hexes", humanize.Comma(int64(summary.Hexes)),
		"land", humanize.Comma(int64(summary.Land)),
		"ocean", humanize.Comma(int64(summary.Ocean)),
		"coastal", humanize.Comma(int64(summary.Coastal)),
		"min_elevation", fmt.Sprintf("%.3e", summary.MinElevation),
		"max_elevation", fmt.Sprintf("%.3e", summary.MaxElevation),
		"elapsed", time.Since(started),
	)
	if err := db.SaveMeta("last_seed", strconv.FormatInt(worldMap.Seed, 10)); err != nil {
		slog.Warn("failed to record seed", "error", err)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if adminKey == "" {
		slog.Warn("HEIGHTSIM_ADMIN_KEY not set; preset POST endpoint will be disabled")
	}

	apiServer, err := api.NewServer(db, preset)
	if err != nil {
		slog.Error("failed to create API server", "error", err)
		os.Exit(1)
	}
	apiServer.Port = apiPort
	apiServer.AdminKey = adminKey
	apiServer.TrustProxy = envOrDefault("HEIGHTSIM_TRUST_PROXY", "") == "true"
	httpServer := apiServer.Start()

	fmt.Printf("\nheightsim is up: %s hexes sampled, %s above sea level.\n",
		humanize.Comma(int64(summary.Hexes)), humanize.Comma(int64(summary.Land)))
	fmt.Printf("API: http://localhost:%d/api/v1/height?x=0&y=0&z=1\n", apiPort)

	// ── Wait for shutdown ─────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	apiServer.Close()

	fmt.Println("heightsim stopped.")
}

// loadOrCreatePreset returns the stored default preset, creating it from the
// environment on first run. A zero seed is replaced by a random one before
// the preset is stored, so the sampled world and the API agree.
func loadOrCreatePreset(db *persistence.DB, kind noise.Kind, seed int64) (persistence.Preset, error) {
	p, err := db.Preset(defaultPresetName)
	if err == nil {
		slog.Info("loaded preset", "name", p.Name, "seed", p.Seed, "noise", p.Noise)
		return p, nil
	}
	if !errors.Is(err, persistence.ErrPresetNotFound) {
		return persistence.Preset{}, err
	}

	if seed == 0 {
		seed = world.RandomSeed()
		slog.Info("HEIGHTSIM_SEED is 0, picked a random seed", "seed", seed)
	}
	slog.Info("no saved preset found, creating default")
	return db.SavePreset(persistence.Preset{
		Name:        defaultPresetName,
		Options:     terrain.DefaultOptions(),
		Noise:       kind,
		Seed:        seed,
		Persistence: noise.DefaultPersistence,
	})
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
