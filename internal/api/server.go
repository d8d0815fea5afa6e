// Package api provides the HTTP API for querying terrain heights.
// GET endpoints are public (read-only evaluation).
// POST endpoints require a bearer token (preset management).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/heightfield/internal/noise"
	"github.com/talgya/heightfield/internal/persistence"
	"github.com/talgya/heightfield/internal/terrain"
	"github.com/talgya/heightfield/internal/vecmath"
)

// PresetStore is the subset of the persistence layer the API needs.
type PresetStore interface {
	Preset(name string) (persistence.Preset, error)
	Presets() ([]persistence.Preset, error)
	SavePreset(p persistence.Preset) (persistence.Preset, error)
}

// Server serves terrain queries over HTTP.
type Server struct {
	Store    PresetStore
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// HeightRate is the number of height queries allowed per client per minute.
	HeightRate int
	// TrustProxy makes the rate limiter key clients by X-Forwarded-For.
	TrustProxy bool

	preset  persistence.Preset
	noise1  noise.Sampler
	noise2  noise.Sampler
	limiter *RateLimiter
}

// NewServer creates a server whose height queries default to preset.
func NewServer(store PresetStore, preset persistence.Preset) (*Server, error) {
	n1, n2, err := preset.Samplers()
	if err != nil {
		return nil, fmt.Errorf("default preset %q: %w", preset.Name, err)
	}
	return &Server{
		Store:      store,
		HeightRate: 600,
		preset:     preset,
		noise1:     n1,
		noise2:     n2,
	}, nil
}

// Handler builds the request router.
func (s *Server) Handler() http.Handler {
	if s.limiter == nil {
		s.limiter = NewRateLimiter(s.HeightRate, time.Minute)
		s.limiter.TrustProxy = s.TrustProxy
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/height", RateLimitMiddleware(s.limiter, s.handleHeight))
	mux.HandleFunc("/api/v1/presets", s.adminOnly(s.handlePresets))
	mux.HandleFunc("/api/v1/preset/", s.handlePresetDetail)

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine. The returned server can
// be shut down by the caller.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set HEIGHTSIM_CORS_ORIGINS to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("HEIGHTSIM_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no HEIGHTSIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"name":         "heightfield",
		"preset":       s.preset.Name,
		"noise":        s.preset.Noise,
		"seed":         s.preset.Seed,
		"height_scale": terrain.TerrainHeightMaxish,
	})
}

// handleHeight evaluates one point:
// GET /api/v1/height?x=&y=&z=[&river_value=][&river_distance=][&preset=]
func (s *Server) handleHeight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	var loc vecmath.Vec3
	for i, key := range []string{"x", "y", "z"} {
		v, err := finiteParam(q.Get(key), math.NaN())
		if err != nil {
			http.Error(w, fmt.Sprintf("missing or invalid %q", key), http.StatusBadRequest)
			return
		}
		loc[i] = v
	}
	riverValue, err := finiteParam(q.Get("river_value"), 0.5)
	if err != nil {
		http.Error(w, "invalid river_value", http.StatusBadRequest)
		return
	}
	riverDistance, err := finiteParam(q.Get("river_distance"), 1.0)
	if err != nil {
		http.Error(w, "invalid river_distance", http.StatusBadRequest)
		return
	}

	preset, noise1, noise2 := s.preset, s.noise1, s.noise2
	if name := q.Get("preset"); name != "" && name != s.preset.Name {
		preset, err = s.Store.Preset(name)
		if errors.Is(err, persistence.ErrPresetNotFound) {
			http.Error(w, "preset not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("preset lookup failed", "preset", name, "error", err)
			http.Error(w, "preset lookup failed", http.StatusInternalServerError)
			return
		}
		n1, n2, err := preset.Samplers()
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		noise1, noise2 = n1, n2
	}

	res := terrain.Height(noise1, noise2, loc, loc, preset.Options, riverValue, riverDistance)
	writeJSON(w, map[string]any{
		"preset":         preset.Name,
		"location":       loc,
		"height":         res.Height,
		"river_distance": res.RiverDistance,
	})
}

// handlePresets lists presets (GET) or saves one (POST, admin).
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		presets, err := s.Store.Presets()
		if err != nil {
			slog.Error("list presets failed", "error", err)
			http.Error(w, "list presets failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, presets)

	case http.MethodPost:
		var p persistence.Preset
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		saved, err := s.Store.SavePreset(p)
		if errors.Is(err, noise.ErrUnknownKind) || errors.Is(err, persistence.ErrInvalidPreset) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.Error("save preset failed", "preset", p.Name, "error", err)
			http.Error(w, "save preset failed", http.StatusInternalServerError)
			return
		}
		slog.Info("preset saved via API", "name", saved.Name, "id", saved.ID)
		writeJSONStatus(w, http.StatusCreated, saved)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePresetDetail returns one preset: GET /api/v1/preset/:name
func (s *Server) handlePresetDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/preset/")
	if name == "" {
		http.Error(w, "usage: /api/v1/preset/:name", http.StatusBadRequest)
		return
	}

	p, err := s.Store.Preset(name)
	if errors.Is(err, persistence.ErrPresetNotFound) {
		http.Error(w, "preset not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("preset lookup failed", "preset", name, "error", err)
		http.Error(w, "preset lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, p)
}

var errNotFinite = errors.New("value must be finite")

// finiteParam parses v, returning def when v is empty. NaN and infinities
// are rejected, as is an empty v when def itself is not finite.
func finiteParam(v string, def float64) (float64, error) {
	f := def
	if v != "" {
		var err error
		if f, err = strconv.ParseFloat(v, 64); err != nil {
			return 0, err
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
