package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/medqa-eval/internal/config"
)

const (
	DefaultSQLitePath = "data/medqa-eval.db"
	defaultListLimit  = 50
	maxListLimit      = 500
)

var ErrNotFound = errors.New("store: run not found")

// Store keeps the history of completed evaluation runs.
type Store struct {
	db *sql.DB
}

// Run is one completed evaluation, saved after metrics are computed.
type Run struct {
	ID         int64     `json:"id"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Dataset    string    `json:"dataset"`
	Total      int       `json:"total"`
	Correct    int       `json:"correct"`
	Accuracy   float64   `json:"accuracy"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Open resolves the storage backend from config: sqlite (default) or memory.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: missing config")
	}

	storageType := strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if storageType == "" {
		storageType = "sqlite"
	}

	switch storageType {
	case "sqlite":
		path := strings.TrimSpace(cfg.Storage.Path)
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewStore(path)
	case "memory":
		return NewStore(":memory:")
	default:
		return nil, fmt.Errorf("store: unsupported type %q", storageType)
	}
}

func NewStore(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("store: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("store: nil db")
	}

	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS eval_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			dataset TEXT NOT NULL,
			total INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_runs_provider_model ON eval_runs(provider, model)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_runs_created_at ON eval_runs(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, run *Run) error {
	if s == nil || s.db == nil {
		return errors.New("store: nil store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if run == nil {
		return errors.New("store: nil run")
	}

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO eval_runs (provider, model, dataset, total, correct, accuracy, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(run.Provider),
		strings.TrimSpace(run.Model),
		strings.TrimSpace(run.Dataset),
		run.Total,
		run.Correct,
		run.Accuracy,
		run.DurationMs,
		run.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("store: save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: last insert id: %w", err)
	}
	run.ID = id
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider, model, dataset, total, correct, accuracy, duration_ms, created_at
		 FROM eval_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: nil store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, provider, model, dataset, total, correct, accuracy, duration_ms, created_at
		 FROM eval_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (Run, error) {
	var run Run
	var createdAt int64
	if err := sc.Scan(
		&run.ID,
		&run.Provider,
		&run.Model,
		&run.Dataset,
		&run.Total,
		&run.Correct,
		&run.Accuracy,
		&run.DurationMs,
		&createdAt,
	); err != nil {
		return Run{}, fmt.Errorf("store: scan run: %w", err)
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	return run, nil
}
