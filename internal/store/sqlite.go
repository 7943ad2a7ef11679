package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nvandessel/obsim/internal/constants"
	"github.com/nvandessel/obsim/internal/pathutil"
	_ "modernc.org/sqlite" // SQLite driver
)

// timeFormat is fixed-width so created_at sorts lexically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteSweepStore implements SweepStore on a SQLite database.
type SQLiteSweepStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteSweepStore opens (creating if needed) <dir>/sweeps.db.
func NewSQLiteSweepStore(dir string) (*SQLiteSweepStore, error) {
	if err := pathutil.EnsureDir(dir); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, constants.StoreFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteSweepStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteSweepStore) Path() string {
	return s.dbPath
}

// SaveRun inserts run and its points in one transaction.
func (s *SQLiteSweepStore) SaveRun(ctx context.Context, run Run, points []Point) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, created_at, steps, seed_decoherence, seed_original, grid_start, grid_stop, grid_points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeFormat), run.Steps,
		run.SeedDecoherence, run.SeedOriginal, run.GridStart, run.GridStop, run.GridPoints)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM points WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("failed to clear points: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (run_id, model, idx, lambda, probability, successes, steps, p_hat, entropy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, run.ID, p.Model, p.Index, p.Lambda, p.Probability,
			p.Successes, p.Steps, p.PHat, p.Entropy); err != nil {
			return fmt.Errorf("failed to insert point %s/%d: %w", p.Model, p.Index, err)
		}
	}

	return tx.Commit()
}

// GetRun returns a run by ID.
func (s *SQLiteSweepStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, steps, seed_decoherence, seed_original, grid_start, grid_stop, grid_points
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first.
func (s *SQLiteSweepStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, steps, seed_decoherence, seed_original, grid_start, grid_stop, grid_points
		FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Points returns a run's points ordered by model then index.
func (s *SQLiteSweepStore) Points(ctx context.Context, runID, model string) ([]Point, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	query := `
		SELECT model, idx, lambda, probability, successes, steps, p_hat, entropy
		FROM points WHERE run_id = ?`
	args := []any{runID}
	if model != "" {
		query += ` AND model = ?`
		args = append(args, model)
	}
	query += ` ORDER BY model, idx`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Model, &p.Index, &p.Lambda, &p.Probability,
			&p.Successes, &p.Steps, &p.PHat, &p.Entropy); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Close closes the database.
func (s *SQLiteSweepStore) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		createdAt string
	)
	if err := row.Scan(&run.ID, &createdAt, &run.Steps, &run.SeedDecoherence, &run.SeedOriginal,
		&run.GridStart, &run.GridStop, &run.GridPoints); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	return &run, nil
}
