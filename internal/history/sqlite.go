package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/pkg/core/version"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./.transync/history.db",
	}
}

// NewSQLiteStore opens or creates the history database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, dbError(err, "failed to create directory").WithDetail("path", dir)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1")
	if err != nil {
		return nil, dbError(err, "failed to open database")
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema").WithDetail("path", cfg.Path)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_info (
		version INTEGER NOT NULL
	);

	-- One row per command execution
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		file TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ns INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error TEXT,
		stats TEXT
	);

	CREATE TABLE IF NOT EXISTS findings (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		line INTEGER NOT NULL,
		context TEXT NOT NULL,
		kind TEXT NOT NULL,
		key TEXT,
		severity TEXT,
		message TEXT,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_info`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		_, err := s.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, version.HistorySchema)
		return err
	}
	return nil
}

// Record stores a run and its findings in one transaction
func (s *SQLiteStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(run)

	var statsJSON []byte
	if run.Stats != nil {
		statsJSON, _ = json.Marshal(run.Stats)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, file, started_at, duration_ns, success, error, stats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Kind, run.File, run.StartedAt.UTC(), int64(run.Duration), run.Success, run.Error, statsJSON)
	if err != nil {
		return dbError(err, "failed to insert run").WithDetail("run_id", run.ID)
	}

	if len(run.Findings) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO findings (run_id, seq, line, context, kind, key, severity, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return dbError(err, "failed to prepare statement")
		}
		defer stmt.Close()

		for i, f := range run.Findings {
			if _, err := stmt.ExecContext(ctx, run.ID, i, f.Line, f.Context, f.Kind, f.Key, f.Severity, f.Message); err != nil {
				return dbError(err, "failed to insert finding").WithDetail("run_id", run.ID)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(err, "failed to commit transaction")
	}
	return nil
}

// List retrieves runs based on filter criteria
func (s *SQLiteStore) List(ctx context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, kind, file, started_at, duration_ns, success, error, stats FROM runs WHERE 1=1`
	var args []interface{}

	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filter.Kind)
	}
	if filter.File != "" {
		query += " AND file = ?"
		args = append(args, filter.File)
	}
	if !filter.Since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY started_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, dbError(err, "failed to scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read runs")
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var durationNS int64
	var errText, statsJSON sql.NullString

	if err := row.Scan(&run.ID, &run.Kind, &run.File, &run.StartedAt, &durationNS,
		&run.Success, &errText, &statsJSON); err != nil {
		return nil, err
	}

	run.Duration = time.Duration(durationNS)
	if errText.Valid {
		run.Error = errText.String
	}
	if statsJSON.Valid && statsJSON.String != "" {
		json.Unmarshal([]byte(statsJSON.String), &run.Stats)
	}
	return &run, nil
}

// Get retrieves a run by ID or unique ID prefix, with its findings
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "" {
		return nil, notFound(id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, file, started_at, duration_ns, success, error, stats
		FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' LIMIT 2
	`, id, likePrefix(id))
	if err != nil {
		return nil, dbError(err, "failed to query run")
	}

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, dbError(err, "failed to scan run")
		}
		matches = append(matches, run)
	}
	rows.Close()

	var run *Run
	for _, m := range matches {
		if m.ID == id {
			run = m
		}
	}
	if run == nil {
		switch len(matches) {
		case 0:
			return nil, notFound(id)
		case 1:
			run = matches[0]
		default:
			return nil, mdwerror.Newf("run id prefix %q is ambiguous", id).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("history.Get")
		}
	}

	frows, err := s.db.QueryContext(ctx, `
		SELECT line, context, kind, key, severity, message
		FROM findings WHERE run_id = ? ORDER BY seq
	`, run.ID)
	if err != nil {
		return nil, dbError(err, "failed to query findings")
	}
	defer frows.Close()

	for frows.Next() {
		var f Finding
		var key, severity, message sql.NullString
		if err := frows.Scan(&f.Line, &f.Context, &f.Kind, &key, &severity, &message); err != nil {
			return nil, dbError(err, "failed to scan finding")
		}
		f.Key, f.Severity, f.Message = key.String, severity.String, message.String
		run.Findings = append(run.Findings, f)
	}
	return run, frows.Err()
}

// Prune deletes everything but the newest keep runs
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, dbError(err, "failed to prune runs")
	}
	return result.RowsAffected()
}

// Stats returns run counts per kind
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM runs GROUP BY kind`)
	if err != nil {
		return nil, dbError(err, "failed to query stats")
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, dbError(err, "failed to scan stats")
		}
		stats[kind] = count
	}
	return stats, rows.Err()
}

// Vacuum reclaims space after pruning
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `VACUUM`)
	if err != nil {
		return dbError(err, "failed to vacuum")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func dbError(err error, msg string) *mdwerror.Error {
	return mdwerror.Wrap(err, msg).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation("history")
}

func notFound(id string) error {
	return mdwerror.Newf("run %q not found", id).
		WithCode(mdwerror.CodeNotFound).
		WithOperation("history.Get")
}

func likePrefix(id string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(id) + "%"
}
