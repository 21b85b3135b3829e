// Package archive provides SQL-backed persistence for generation runs
// and their floor layouts. SQLite and PostgreSQL are supported.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/towerforge/internal/floorgen"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// ErrNotFound is returned when a requested run or floor does not exist.
var ErrNotFound = errors.New("archive: not found")

// Config holds archive connection configuration.
type Config struct {
	// Driver specifies which database to use: "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// SQLitePath is the database file path when Driver is "sqlite".
	SQLitePath string `yaml:"sqlite_path"`

	// PostgresDSN is the connection string when Driver is "postgres".
	PostgresDSN string `yaml:"postgres_dsn"`
}

// DefaultConfig returns a Config using SQLite at the given path.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
	}
}

// Run records one generation run: a configuration identity under which
// a set of floors was produced.
type Run struct {
	ID        string
	Seed      int64
	Algorithm string
	RoomCount int
	CreatedAt time.Time
}

// Archive wraps the database connection.
type Archive struct {
	db      *sql.DB
	dialect Dialect
}

// Open opens the archive, creating the schema if needed.
func Open(cfg Config) (*Archive, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		dsn = cfg.PostgresDSN
	default:
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize archive: %w", err)
		}
	}

	a := &Archive{db: db, dialect: dialect}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run archive migrations: %w", err)
	}
	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (a *Archive) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed BIGINT NOT NULL,
			algorithm TEXT NOT NULL,
			room_count INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS floors (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			room_count INTEGER NOT NULL,
			corridor_count INTEGER NOT NULL,
			layout TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (run_id, number)
		)`,
	}
	for _, migration := range migrations {
		if _, err := a.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// BeginRun records a new generation run and returns it.
func (a *Archive) BeginRun(seed int64, algorithm string, roomCount int) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Seed:      seed,
		Algorithm: algorithm,
		RoomCount: roomCount,
		CreatedAt: time.Now().UTC(),
	}
	query := rebind(a.dialect,
		`INSERT INTO runs (id, seed, algorithm, room_count, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := a.db.Exec(query, run.ID, run.Seed, run.Algorithm, run.RoomCount, run.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// SaveFloor stores one floor's serialized layout under a run.
func (a *Archive) SaveFloor(runID string, floor *world.Floor) error {
	layout, err := floorgen.Marshal(floor)
	if err != nil {
		return err
	}
	query := rebind(a.dialect,
		`INSERT INTO floors (run_id, number, seed, room_count, corridor_count, layout) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := a.db.Exec(query, runID, floor.Number, floor.Seed,
		len(floor.Rooms), len(floor.Corridors), string(layout)); err != nil {
		if a.dialect.IsDuplicateKeyError(err) {
			return fmt.Errorf("floor %d already archived for run %s: %w", floor.Number, runID, err)
		}
		return fmt.Errorf("failed to archive floor: %w", err)
	}
	return nil
}

// LoadFloor retrieves one archived floor, resolving template references
// against the catalog.
func (a *Archive) LoadFloor(runID string, number int, catalog *world.Catalog) (*world.Floor, error) {
	query := rebind(a.dialect,
		`SELECT layout FROM floors WHERE run_id = ? AND number = ?`)
	var layout string
	err := a.db.QueryRow(query, runID, number).Scan(&layout)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s floor %d", ErrNotFound, runID, number)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load floor: %w", err)
	}
	return floorgen.Unmarshal([]byte(layout), catalog)
}

// GetRun retrieves one run by id.
func (a *Archive) GetRun(runID string) (*Run, error) {
	query := rebind(a.dialect,
		`SELECT id, seed, algorithm, room_count, created_at FROM runs WHERE id = ?`)
	run := &Run{}
	err := a.db.QueryRow(query, runID).Scan(&run.ID, &run.Seed, &run.Algorithm, &run.RoomCount, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return run, nil
}

// ListRuns returns all recorded runs, newest first.
func (a *Archive) ListRuns() ([]*Run, error) {
	rows, err := a.db.Query(`SELECT id, seed, algorithm, room_count, created_at FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Seed, &run.Algorithm, &run.RoomCount, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FloorNumbers returns the archived floor numbers for a run, ascending.
func (a *Archive) FloorNumbers(runID string) ([]int, error) {
	query := rebind(a.dialect,
		`SELECT number FROM floors WHERE run_id = ? ORDER BY number`)
	rows, err := a.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}
	defer rows.Close()

	var numbers []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan floor number: %w", err)
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}
