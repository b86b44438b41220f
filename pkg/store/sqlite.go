package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/harrisonrobin/planner/pkg/logging"
	"github.com/harrisonrobin/planner/pkg/model"
)

// ErrTaskNotFound is returned when a task id matches no row.
var ErrTaskNotFound = errors.New("task not found")

// Storage is the local SQLite task list.
type Storage struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open creates the database file (and its directory) if needed and
// applies the schema.
func Open(dbPath string, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db, logger: logger, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Debug("opened task store", logging.Path(dbPath))
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			due_at TEXT NOT NULL,
			estimate_minutes INTEGER NOT NULL,
			priority INTEGER NOT NULL DEFAULT 2,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_due_at ON tasks(due_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// CreateTask validates t, assigns its id and creation time and inserts it.
func (s *Storage) CreateTask(t *model.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = s.now().UTC()

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, due_at, estimate_minutes, priority, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.DueAt.UTC().Format(time.RFC3339), t.EstimateMinutes, t.Priority, t.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	s.logger.Debug("created task", logging.Task(t.ID), zap.Duration("estimate", t.Estimate()))
	return nil
}

// GetTask returns the task with the given id or ErrTaskNotFound.
func (s *Storage) GetTask(id string) (*model.Task, error) {
	row := s.db.QueryRow(
		`SELECT id, title, due_at, estimate_minutes, priority, created_at FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

// ListTasks returns every task ordered by due date, then priority.
// Due dates are stored in UTC so that the text ordering is chronological.
func (s *Storage) ListTasks() ([]*model.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, due_at, estimate_minutes, priority, created_at
		 FROM tasks
		 ORDER BY due_at ASC, priority ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// DeleteTask removes the task with the given id.
func (s *Storage) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	s.logger.Debug("deleted task", logging.Task(id))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*model.Task, error) {
	var (
		t              model.Task
		due, createdAt string
	)
	if err := row.Scan(&t.ID, &t.Title, &due, &t.EstimateMinutes, &t.Priority, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if t.DueAt, err = time.Parse(time.RFC3339, due); err != nil {
		return nil, fmt.Errorf("task %s: invalid due_at %q: %w", t.ID, due, err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("task %s: invalid created_at %q: %w", t.ID, createdAt, err)
	}
	return &t, nil
}
