package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jdelaire/gymbot/internal/localtime"
)

var ErrEmptyTaskText = errors.New("task text is empty")

// CompleteStatus describes the result of marking a task as done.
type CompleteStatus int

const (
	CompleteUpdated CompleteStatus = iota
	CompleteUnknown
	CompleteAlreadyDone
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// TaskService provides per-user todo operations and reminder selection.
type TaskService struct {
	store *Store
	clock *localtime.Clock
}

func NewTaskService(store *Store, clock *localtime.Clock) *TaskService {
	return &TaskService{store: store, clock: clock}
}

func (s *TaskService) Create(ctx context.Context, user, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyTaskText
	}

	return s.store.Insert(ctx, Task{
		User:      user,
		Text:      text,
		Status:    TaskStatusOpen,
		CreatedAt: s.clock.Now().Format(timeLayout),
	})
}

func (s *TaskService) ListOpen(ctx context.Context, user string) ([]Task, error) {
	return s.store.Open(ctx, user)
}

// Complete marks the user's task done. Tasks owned by someone else are
// reported as unknown.
func (s *TaskService) Complete(ctx context.Context, user string, id int64) (CompleteStatus, error) {
	task, err := s.store.Get(ctx, user, id)
	if err != nil {
		return CompleteUnknown, err
	}
	if task == nil {
		return CompleteUnknown, nil
	}
	if task.Status == TaskStatusDone {
		return CompleteAlreadyDone, nil
	}

	if err := s.store.SetStatus(ctx, id, TaskStatusDone); err != nil {
		return CompleteUnknown, err
	}
	return CompleteUpdated, nil
}

// PrepareDailyReminder returns open tasks not yet reminded on today, grouped
// by user. It persists last_reminded_date before returning.
func (s *TaskService) PrepareDailyReminder(ctx context.Context, today string) (map[string][]Task, error) {
	open, err := s.store.Open(ctx, "")
	if err != nil {
		return nil, err
	}

	selected := make(map[string][]Task)
	var ids []int64
	for _, task := range open {
		if task.LastRemindedDate != nil && *task.LastRemindedDate == today {
			continue
		}
		selected[task.User] = append(selected[task.User], task)
		ids = append(ids, task.ID)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if err := s.store.MarkReminded(ctx, ids, today); err != nil {
		return nil, fmt.Errorf("persist reminder marks: %w", err)
	}
	return selected, nil
}
