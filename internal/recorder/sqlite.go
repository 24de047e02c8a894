package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists parameter history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS parameter_changes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			source      TEXT,
			state       TEXT,
			lr0         REAL,
			t_max       REAL,
			y_max       REAL,
			call_end    REAL,
			short_end   REAL,
			ratio_end   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_ts ON parameter_changes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			lr0         REAL,
			updates     INTEGER,
			t_max       REAL,
			call_end    REAL,
			short_end   REAL,
			ratio_end   REAL,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordChange(evt *ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO parameter_changes
		(timestamp, source, state, lr0, t_max, y_max, call_end, short_end, ratio_end)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Source, evt.State, evt.LR0, evt.TMax, evt.YMax,
		evt.CallEnd, evt.ShortEnd, evt.RatioEnd,
	)
	return err
}

func (r *SQLiteRecorder) RecordSnapshot(snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO snapshots
		(timestamp, lr0, updates, t_max, call_end, short_end, ratio_end, note)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.LR0, snap.Updates, snap.TMax,
		snap.CallEnd, snap.ShortEnd, snap.RatioEnd, snap.Note,
	)
	return err
}

// ChangeCount returns the number of recorded parameter changes.
func (r *SQLiteRecorder) ChangeCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM parameter_changes`).Scan(&n)
	return n, err
}

// LastChange returns the most recent parameter change, or nil if none.
func (r *SQLiteRecorder) LastChange() (*ChangeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evt ChangeEvent
	err := r.db.QueryRow(`SELECT source, state, lr0, t_max, y_max, call_end, short_end, ratio_end
		FROM parameter_changes ORDER BY id DESC LIMIT 1`).
		Scan(&evt.Source, &evt.State, &evt.LR0, &evt.TMax, &evt.YMax, &evt.CallEnd, &evt.ShortEnd, &evt.RatioEnd)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &evt, nil
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
