// Package storage provides SQLite-based persistence for the shot log.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the shot log.
type Store struct {
	db *sql.DB
}

// Run groups shots produced by one evaluation or viewing session.
type Run struct {
	ID        string
	Policy    string
	Source    string // "run", "watch" or "ssh:<user>"
	Preset    string
	Seed      int64
	CreatedAt time.Time
}

// Shot is one resolved episode.
type Shot struct {
	ID       int64
	RunID    string
	Episode  int
	RawAngle float64
	RawPower float64
	AngleDeg float64
	Power    float64
	TargetX  float64
	TargetY  float64
	Hit      bool
	Reward   float64
	Ticks    int
	Distance float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SSH sessions and batch workers share one store; serialize writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			policy TEXT NOT NULL,
			source TEXT NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_policy ON runs(policy);

		CREATE TABLE IF NOT EXISTS shots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			episode INTEGER NOT NULL,
			raw_angle REAL NOT NULL,
			raw_power REAL NOT NULL,
			angle_deg REAL NOT NULL,
			power REAL NOT NULL,
			target_x REAL NOT NULL,
			target_y REAL NOT NULL,
			hit INTEGER NOT NULL,
			reward REAL NOT NULL,
			ticks INTEGER NOT NULL,
			distance REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_shots_run_id ON shots(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateRun records a new run and returns its ID.
// A random ID is assigned when run.ID is empty.
func (s *Store) CreateRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		"INSERT INTO runs (id, policy, source, preset, seed) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.Policy, run.Source, run.Preset, run.Seed,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot create run: %w", err)
	}
	return run.ID, nil
}

// SaveShot records a single shot.
// Returns the ID of the inserted record.
func (s *Store) SaveShot(shot Shot) (int64, error) {
	result, err := s.db.Exec(insertShot, shotArgs(shot)...)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save shot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// SaveShots records a batch of shots in one transaction.
func (s *Store) SaveShots(shots []Shot) error {
	if len(shots) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(insertShot)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, shot := range shots {
		if _, err := stmt.Exec(shotArgs(shot)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: cannot save shot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit shots: %w", err)
	}
	return nil
}

const insertShot = `INSERT INTO shots
	(run_id, episode, raw_angle, raw_power, angle_deg, power, target_x, target_y, hit, reward, ticks, distance)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func shotArgs(s Shot) []any {
	hit := 0
	if s.Hit {
		hit = 1
	}
	return []any{
		s.RunID, s.Episode, s.RawAngle, s.RawPower, s.AngleDeg, s.Power,
		s.TargetX, s.TargetY, hit, s.Reward, s.Ticks, s.Distance,
	}
}

// RunShots retrieves every shot of a run in episode order.
func (s *Store) RunShots(runID string) ([]Shot, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, episode, raw_angle, raw_power, angle_deg, power,
		        target_x, target_y, hit, reward, ticks, distance
		 FROM shots
		 WHERE run_id = ?
		 ORDER BY episode, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query shots: %w", err)
	}
	defer rows.Close()

	var shots []Shot
	for rows.Next() {
		var sh Shot
		var hit int
		if err := rows.Scan(&sh.ID, &sh.RunID, &sh.Episode, &sh.RawAngle, &sh.RawPower,
			&sh.AngleDeg, &sh.Power, &sh.TargetX, &sh.TargetY, &hit, &sh.Reward,
			&sh.Ticks, &sh.Distance); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sh.Hit = hit != 0
		shots = append(shots, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return shots, nil
}

// RunByID retrieves a run by its ID. Returns nil if it does not exist.
func (s *Store) RunByID(id string) (*Run, error) {
	var run Run
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, policy, source, preset, seed, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Policy, &run.Source, &run.Preset, &run.Seed, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	run.CreatedAt = parseTime(createdAt)
	return &run, nil
}

// DeletePolicy removes every run and shot recorded for a policy.
func (s *Store) DeletePolicy(policy string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	if _, err := tx.Exec(
		"DELETE FROM shots WHERE run_id IN (SELECT id FROM runs WHERE policy = ?)", policy,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot clear shots: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE policy = ?", policy); err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
