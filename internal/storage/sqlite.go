// Package storage persists run history in SQLite: finished runs and the
// rounds played in them. The in-run GameState is never stored.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished run.
type RunRecord struct {
	ID        int64
	RunID     string
	Score     int
	Rounds    int
	Speed     float64
	Debug     bool
	StartedAt time.Time
	EndedAt   time.Time
}

// RoundRecord is one resolved round.
type RoundRecord struct {
	RunID    string
	Index    int
	Key      string
	Won      bool
	TimedOut bool
	Elapsed  time.Duration
	Speed    float64
	PlayedAt time.Time
}

// KeyStat aggregates every recorded round of one microgame.
type KeyStat struct {
	Key        string
	Played     int
	Won        int
	AvgElapsed time.Duration
}

// WinRate returns Won/Played, or 0 when nothing was played.
func (k KeyStat) WinRate() float64 {
	if k.Played == 0 {
		return 0
	}
	return float64(k.Won) / float64(k.Played)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			score INTEGER NOT NULL,
			rounds INTEGER NOT NULL,
			speed REAL NOT NULL,
			debug INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(debug, score DESC);

		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			game_key TEXT NOT NULL,
			won INTEGER NOT NULL,
			timed_out INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			speed REAL NOT NULL,
			played_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_run ON rounds(run_id);
		CREATE INDEX IF NOT EXISTS idx_rounds_key ON rounds(game_key);
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

// SaveRun records a finished run.
func (s *Store) SaveRun(r RunRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, score, rounds, speed, debug, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Score, r.Rounds, r.Speed, boolInt(r.Debug),
		r.StartedAt.UnixMilli(), r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run %s: %w", r.RunID, err)
	}
	return nil
}

// SaveRound records one resolved round.
func (s *Store) SaveRound(r RoundRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO rounds (run_id, idx, game_key, won, timed_out, elapsed_ms, speed, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Index, r.Key, boolInt(r.Won), boolInt(r.TimedOut),
		r.Elapsed.Milliseconds(), r.Speed, r.PlayedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save round of %s: %w", r.Key, err)
	}
	return nil
}

// TopRuns returns the best non-debug runs, highest score first.
func (s *Store) TopRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, score, rounds, speed, debug, started_at, ended_at
		 FROM runs
		 WHERE debug = 0
		 ORDER BY score DESC, ended_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var debug int
		var started, ended int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.Score, &r.Rounds, &r.Speed, &debug, &started, &ended); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Debug = debug != 0
		r.StartedAt = time.UnixMilli(started)
		r.EndedAt = time.UnixMilli(ended)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// HighScore returns the best non-debug score, or 0 if none exists.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs WHERE debug = 0").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// RunCount returns the number of recorded non-debug runs.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs WHERE debug = 0").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return n, nil
}

// KeyStats aggregates every recorded round per microgame, sorted by key.
func (s *Store) KeyStats() ([]KeyStat, error) {
	rows, err := s.db.Query(
		`SELECT game_key, COUNT(*), SUM(won), AVG(elapsed_ms)
		 FROM rounds
		 GROUP BY game_key
		 ORDER BY game_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query round stats: %w", err)
	}
	defer rows.Close()

	var stats []KeyStat
	for rows.Next() {
		var k KeyStat
		var avg float64
		if err := rows.Scan(&k.Key, &k.Played, &k.Won, &avg); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		k.AvgElapsed = time.Duration(avg) * time.Millisecond
		stats = append(stats, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// RunRounds returns the rounds of one run in play order.
func (s *Store) RunRounds(runID string) ([]RoundRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, idx, game_key, won, timed_out, elapsed_ms, speed, played_at
		 FROM rounds
		 WHERE run_id = ?
		 ORDER BY idx`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		var r RoundRecord
		var won, timedOut int
		var elapsed, played int64
		if err := rows.Scan(&r.RunID, &r.Index, &r.Key, &won, &timedOut, &elapsed, &r.Speed, &played); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Won, r.TimedOut = won != 0, timedOut != 0
		r.Elapsed = time.Duration(elapsed) * time.Millisecond
		r.PlayedAt = time.UnixMilli(played)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearRuns deletes all recorded runs and rounds.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM rounds; DELETE FROM runs;"); err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
