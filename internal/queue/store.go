package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"hushcut/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "queue.db"))
}

// OpenPath opens the queue database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const itemColumns = `id, run_id, source_path, output_path, status, error_message,
    progress_percent, progress_message, video_info_json, created_at, updated_at`

// NewFile enqueues a video file for processing. Files already pending or in
// flight are not enqueued twice; the existing item is returned instead.
func (s *Store) NewFile(ctx context.Context, sourcePath, outputPath string) (*Item, error) {
	existing, err := s.FindActiveBySource(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO queue_items (
            source_path, output_path, status, progress_percent, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		sourcePath,
		nullableString(outputPath),
		StatusPending,
		0.0,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a queue item by identifier. A missing item returns nil
// without error.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// FindActiveBySource returns the first non-terminal item for a source path.
func (s *Store) FindActiveBySource(ctx context.Context, sourcePath string) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items
         WHERE source_path = ? AND status NOT IN (?, ?)
         ORDER BY id LIMIT 1`,
		sourcePath, StatusCompleted, StatusFailed,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by source: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing queue item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items
         SET run_id = ?, source_path = ?, output_path = ?, status = ?, error_message = ?,
             progress_percent = ?, progress_message = ?, video_info_json = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(item.RunID),
		item.SourcePath,
		nullableString(item.OutputPath),
		item.Status,
		nullableString(item.ErrorMessage),
		item.ProgressPercent,
		nullableString(item.ProgressMessage),
		nullableString(item.VideoInfoJSON),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateProgress records a progress sample without touching the rest of the item.
func (s *Store) UpdateProgress(ctx context.Context, id int64, percent float64, message string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items SET progress_percent = ?, progress_message = ?, updated_at = ? WHERE id = ?`,
		percent,
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// ClaimNextPending atomically transitions the oldest pending item to a
// processing status and returns it. Nil is returned when nothing is pending.
func (s *Store) ClaimNextPending(ctx context.Context, runID string) (*Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx, `SELECT id FROM queue_items WHERE status = ? ORDER BY created_at LIMIT 1`, StatusPending)
	var id int64
	if err := row.Scan(&id); errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("select pending: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE queue_items SET status = ?, run_id = ?, updated_at = ? WHERE id = ?`,
		StatusAnalyzing, runID, timestamp, id,
	); err != nil {
		return nil, fmt.Errorf("claim item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}
	return s.GetByID(ctx, id)
}

// List returns queue items filtered by status set, or all items when no
// status is provided, ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]byte, 0, len(statuses)*2)
		for i, status := range statuses {
			if i > 0 {
				placeholders = append(placeholders, ',', ' ')
			}
			placeholders = append(placeholders, '?')
			args = append(args, status)
		}
		query += ` WHERE status IN (` + string(placeholders) + `)`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ResetStuck rolls items left in a processing status back to pending. It
// repairs the queue after a crash or unclean shutdown.
func (s *Store) ResetStuck(ctx context.Context) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items SET status = ?, run_id = NULL, progress_percent = 0,
             progress_message = NULL, updated_at = ?
         WHERE status IN (?, ?, ?)`,
		StatusPending, timestamp,
		StatusAnalyzing, StatusPreprocessing, StatusCutting,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// RetryFailed moves failed items back to pending.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items SET status = ?, error_message = NULL, progress_percent = 0,
             progress_message = NULL, updated_at = ?
         WHERE status = ?`,
		StatusPending, timestamp, StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("retry failed items: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// Clear removes terminal items, or every item when all is true.
func (s *Store) Clear(ctx context.Context, all bool) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if all {
		res, err = s.db.ExecContext(ctx, `DELETE FROM queue_items`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM queue_items WHERE status IN (?, ?)`, StatusCompleted, StatusFailed)
	}
	if err != nil {
		return 0, fmt.Errorf("clear items: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// Health aggregates queue counts per lifecycle bucket.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM queue_items GROUP BY status`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("query health: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var (
			status Status
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, fmt.Errorf("scan health row: %w", err)
		}
		summary.Total += count
		switch {
		case status == StatusPending:
			summary.Pending += count
		case status.IsProcessing():
			summary.Processing += count
		case status == StatusFailed:
			summary.Failed += count
		case status == StatusCompleted:
			summary.Completed += count
		}
	}
	return summary, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item            Item
		runID           sql.NullString
		outputPath      sql.NullString
		errorMessage    sql.NullString
		progressMessage sql.NullString
		videoInfoJSON   sql.NullString
		createdAt       string
		updatedAt       string
	)
	err := row.Scan(
		&item.ID,
		&runID,
		&item.SourcePath,
		&outputPath,
		&item.Status,
		&errorMessage,
		&item.ProgressPercent,
		&progressMessage,
		&videoInfoJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.RunID = runID.String
	item.OutputPath = outputPath.String
	item.ErrorMessage = errorMessage.String
	item.ProgressMessage = progressMessage.String
	item.VideoInfoJSON = videoInfoJSON.String
	if item.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if item.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &item, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
