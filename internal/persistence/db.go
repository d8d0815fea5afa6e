// Package persistence provides SQLite-based storage for world generation
// presets and world metadata.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/heightfield/internal/noise"
	"github.com/talgya/heightfield/internal/terrain"
	"github.com/talgya/heightfield/internal/vecmath"
)

var (
	// ErrPresetNotFound is returned when no preset has the requested name.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrInvalidPreset is returned when a preset fails validation on save.
	ErrInvalidPreset = errors.New("invalid preset")
)

// Preset is a named, reproducible world generation setup.
type Preset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Options     terrain.Options `json:"options"`
	Noise       noise.Kind      `json:"noise"`
	Seed        int64           `json:"seed"`
	Persistence float64         `json:"persistence"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Samplers builds the noise pair described by the preset.
func (p Preset) Samplers() (noise1, noise2 *noise.Fractal, err error) {
	return noise.NewPair(p.Noise, p.Seed, p.Persistence)
}

// presetRow is the flattened table layout of a Preset.
type presetRow struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	ScaleX       float64 `db:"scale_x"`
	ScaleY       float64 `db:"scale_y"`
	ScaleZ       float64 `db:"scale_z"`
	InfluenceX   float64 `db:"influence_x"`
	InfluenceY   float64 `db:"influence_y"`
	InfluenceZ   float64 `db:"influence_z"`
	HeightOffset float64 `db:"height_offset"`
	Noise        string  `db:"noise"`
	Seed         int64   `db:"seed"`
	Persistence  float64 `db:"persistence"`
	CreatedAt    int64   `db:"created_at"`
}

func toRow(p Preset) presetRow {
	return presetRow{
		ID:           p.ID,
		Name:         p.Name,
		ScaleX:       p.Options.Scales.X(),
		ScaleY:       p.Options.Scales.Y(),
		ScaleZ:       p.Options.Scales.Z(),
		InfluenceX:   p.Options.Influences.X(),
		InfluenceY:   p.Options.Influences.Y(),
		InfluenceZ:   p.Options.Influences.Z(),
		HeightOffset: p.Options.HeightOffset,
		Noise:        string(p.Noise),
		Seed:         p.Seed,
		Persistence:  p.Persistence,
		CreatedAt:    p.CreatedAt.Unix(),
	}
}

func (r presetRow) preset() Preset {
	return Preset{
		ID:   r.ID,
		Name: r.Name,
		Options: terrain.Options{
			Scales:       vecmath.Vec3{r.ScaleX, r.ScaleY, r.ScaleZ},
			Influences:   vecmath.Vec3{r.InfluenceX, r.InfluenceY, r.InfluenceZ},
			HeightOffset: r.HeightOffset,
		},
		Noise:       noise.Kind(r.Noise),
		Seed:        r.Seed,
		Persistence: r.Persistence,
		CreatedAt:   time.Unix(r.CreatedAt, 0).UTC(),
	}
}

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS presets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		scale_x REAL NOT NULL,
		scale_y REAL NOT NULL,
		scale_z REAL NOT NULL,
		influence_x REAL NOT NULL,
		influence_y REAL NOT NULL,
		influence_z REAL NOT NULL,
		height_offset REAL NOT NULL,
		noise TEXT NOT NULL,
		seed INTEGER NOT NULL,
		persistence REAL NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SavePreset inserts a preset, or updates the existing preset with the same
// name. A new preset gets a fresh UUID. The stored preset is returned.
func (db *DB) SavePreset(p Preset) (Preset, error) {
	if p.Name == "" {
		return Preset{}, fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}
	kind, err := noise.ParseKind(string(p.Noise))
	if err != nil {
		return Preset{}, err
	}
	p.Noise = kind
	if err := noise.ValidatePersistence(p.Persistence); err != nil {
		return Preset{}, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	if p.Persistence == 0 {
		p.Persistence = noise.DefaultPersistence
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	_, err = db.conn.NamedExec(`INSERT INTO presets
		(id, name, scale_x, scale_y, scale_z, influence_x, influence_y, influence_z,
		 height_offset, noise, seed, persistence, created_at)
		VALUES (:id, :name, :scale_x, :scale_y, :scale_z, :influence_x, :influence_y, :influence_z,
		 :height_offset, :noise, :seed, :persistence, :created_at)
		ON CONFLICT(name) DO UPDATE SET
			scale_x = excluded.scale_x,
			scale_y = excluded.scale_y,
			scale_z = excluded.scale_z,
			influence_x = excluded.influence_x,
			influence_y = excluded.influence_y,
			influence_z = excluded.influence_z,
			height_offset = excluded.height_offset,
			noise = excluded.noise,
			seed = excluded.seed,
			persistence = excluded.persistence`,
		toRow(p),
	)
	if err != nil {
		return Preset{}, fmt.Errorf("save preset %q: %w", p.Name, err)
	}

	slog.Debug("preset saved", "name", p.Name, "seed", p.Seed, "noise", p.Noise)
	return db.Preset(p.Name)
}

// Preset loads a preset by name.
func (db *DB) Preset(name string) (Preset, error) {
	var row presetRow
	err := db.conn.Get(&row, "SELECT * FROM presets WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("load preset %q: %w", name, err)
	}
	return row.preset(), nil
}

// Presets returns all presets ordered by name.
func (db *DB) Presets() ([]Preset, error) {
	var rows []presetRow
	if err := db.conn.Select(&rows, "SELECT * FROM presets ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	presets := make([]Preset, 0, len(rows))
	for _, r := range rows {
		presets = append(presets, r.preset())
	}
	return presets, nil
}

// DeletePreset removes a preset by name.
func (db *DB) DeletePreset(name string) error {
	res, err := db.conn.Exec("DELETE FROM presets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
