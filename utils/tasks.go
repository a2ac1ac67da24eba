package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-api/models"
)

// TaskStore persists tasks in a single relational table. Every method runs
// one statement on a pooled connection.
type TaskStore struct {
	db      *sql.DB
	dialect dialect
}

const taskColumns = "id, title, description, completed, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var task models.Task
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, timestamp{&task.CreatedAt})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// sqliteTimeLayouts lists the text encodings SQLite may hand back for a
// DATETIME column, for example from a RETURNING clause.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timestamp scans a time column into a UTC time.Time regardless of whether
// the driver returns it parsed or as text.
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (ts timestamp) parse(s string) error {
	// time.Time.String() output may carry a monotonic clock suffix.
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

// List retrieves all tasks in insertion order
func (s *TaskStore) List(ctx context.Context) ([]models.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get retrieves a task by ID
func (s *TaskStore) Get(ctx context.Context, id int64) (models.Task, error) {
	query := s.dialect.rebind(`
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = ?
	`)
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

// Create inserts a new task. A nil description or completed flag falls back
// to the column default.
func (s *TaskStore) Create(ctx context.Context, title string, description *string, completed *bool) (models.Task, error) {
	if err := models.ValidateTitle(title); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		Title:     title,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if description != nil {
		task.Description = *description
	}
	if completed != nil {
		task.Completed = *completed
	}

	query := s.dialect.rebind(`
	INSERT INTO tasks (title, description, completed, created_at)
	VALUES (?, ?, ?, ?)
	RETURNING id
	`)
	err := s.db.QueryRowContext(ctx, query, task.Title, task.Description, task.Completed, task.CreatedAt).Scan(&task.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

// Update overwrites the fields set in patch and returns the stored task.
func (s *TaskStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if patch.Title != nil {
		if err := models.ValidateTitleLength(*patch.Title); err != nil {
			return models.Task{}, err
		}
	}
	if patch.Empty() {
		return s.Get(ctx, id)
	}

	var sets []string
	var args []any
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}
	args = append(args, id)

	query := s.dialect.rebind(`
	UPDATE tasks
	SET ` + strings.Join(sets, ", ") + `
	WHERE id = ?
	RETURNING ` + taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return task, nil
}

// Delete deletes a task by ID
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	query := s.dialect.rebind(`
	DELETE FROM tasks WHERE id = ?
	`)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Ping runs a no-op query against the database.
func (s *TaskStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}
