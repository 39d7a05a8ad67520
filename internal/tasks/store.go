package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TaskStatus tracks a task lifecycle.
type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "open"
	TaskStatusDone TaskStatus = "done"
)

// Schema creates the todos table.
const Schema = `
CREATE TABLE IF NOT EXISTS todos (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	user               TEXT NOT NULL,
	text               TEXT NOT NULL,
	status             TEXT NOT NULL DEFAULT 'open',
	created_at         TEXT NOT NULL,
	last_reminded_date TEXT
);
CREATE INDEX IF NOT EXISTS idx_todos_user_status ON todos(user, status);
`

// Task is the persisted todo.
type Task struct {
	ID               int64
	User             string
	Text             string
	Status           TaskStatus
	CreatedAt        string
	LastRemindedDate *string
}

// Store persists tasks in SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, task Task) (Task, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (user, text, status, created_at) VALUES (?, ?, ?, ?)`,
		task.User, task.Text, task.Status, task.CreatedAt,
	)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	task.ID, err = res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("task id: %w", err)
	}
	return task, nil
}

// Get returns the user's task with id, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, user string, id int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user, text, status, created_at, last_reminded_date FROM todos WHERE id = ? AND user = ?`,
		id, user,
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Open returns open tasks ordered by id. An empty user selects every user.
func (s *Store) Open(ctx context.Context, user string) ([]Task, error) {
	query := `SELECT id, user, text, status, created_at, last_reminded_date FROM todos WHERE status = ?`
	args := []any{TaskStatusOpen}
	if user != "" {
		query += ` AND user = ?`
		args = append(args, user)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func (s *Store) SetStatus(ctx context.Context, id int64, status TaskStatus) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE todos SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

// MarkReminded sets last_reminded_date for the given ids in one transaction.
func (s *Store) MarkReminded(ctx context.Context, ids []int64, date string) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE todos SET last_reminded_date = ? WHERE id = ?`, date, id); err != nil {
			return fmt.Errorf("mark reminded: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (Task, error) {
	var (
		task     Task
		reminded sql.NullString
	)
	if err := sc.Scan(&task.ID, &task.User, &task.Text, &task.Status, &task.CreatedAt, &reminded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, err
		}
		return Task{}, fmt.Errorf("scan task: %w", err)
	}
	if reminded.Valid {
		d := reminded.String
		task.LastRemindedDate = &d
	}
	return task, nil
}
