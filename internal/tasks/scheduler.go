package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	"github.com/jdelaire/gymbot/internal/localtime"
)

// DefaultSchedule reminds at 06:00 local time.
const DefaultSchedule = "0 6 * * *"

// SendFunc delivers text to a user's conversation.
type SendFunc func(ctx context.Context, user, text string) error

// Scheduler sends each user their open todos on a cron schedule evaluated
// at the clock's fixed offset.
type Scheduler struct {
	service *TaskService
	send    SendFunc
	expr    string
	clock   *localtime.Clock
	prefix  string
	logger  *zap.Logger
}

// ValidSchedule reports whether expr is a valid cron expression.
func ValidSchedule(expr string) bool {
	return gronx.New().IsValid(expr)
}

func NewScheduler(service *TaskService, send SendFunc, expr string, clock *localtime.Clock, logger *zap.Logger) (*Scheduler, error) {
	if expr == "" {
		expr = DefaultSchedule
	}
	if !ValidSchedule(expr) {
		return nil, fmt.Errorf("invalid reminder schedule %q", expr)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		service: service,
		send:    send,
		expr:    expr,
		clock:   clock,
		prefix:  "#",
		logger:  logger,
	}, nil
}

// WithPrefix sets the command prefix quoted in reminder messages.
func (s *Scheduler) WithPrefix(prefix string) *Scheduler {
	if prefix != "" {
		s.prefix = prefix
	}
	return s
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("todo reminder scheduler started", zap.String("schedule", s.expr))
	for {
		wait, err := s.untilNextTick()
		if err != nil {
			s.logger.Error("compute next reminder tick", zap.Error(err))
			return
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("todo reminder scheduler stopped")
			return
		case <-timer.C:
		}

		if err := s.runTick(ctx); err != nil {
			s.logger.Error("todo reminder tick failed", zap.Error(err))
		}
	}
}

func (s *Scheduler) untilNextTick() (time.Duration, error) {
	now := s.clock.Local(s.clock.Now())
	next, err := gronx.NextTickAfter(s.expr, now, false)
	if err != nil {
		return 0, err
	}
	return next.Sub(now), nil
}

func (s *Scheduler) runTick(ctx context.Context) error {
	today := s.clock.Today()
	due, err := s.service.PrepareDailyReminder(ctx, today)
	if err != nil {
		return fmt.Errorf("select due tasks: %w", err)
	}

	for user, tasks := range due {
		if err := s.send(ctx, user, FormatReminderMessage(today, s.prefix, tasks)); err != nil {
			s.logger.Error("send reminder", zap.String("user", user), zap.Error(err))
		}
	}
	return nil
}

// FormatReminderMessage renders a user's open todos for the daily reminder.
func FormatReminderMessage(today, prefix string, due []Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Todos for %s\n", today)
	for _, task := range due {
		fmt.Fprintf(&b, "%d: %s\n", task.ID, task.Text)
	}
	fmt.Fprintf(&b, "Reply %sdone <id> when finished", prefix)
	return b.String()
}

// FormatList renders open todos for #todos.
func FormatList(open []Task) string {
	if len(open) == 0 {
		return "No open todos."
	}
	lines := make([]string, 0, len(open))
	for _, task := range open {
		lines = append(lines, fmt.Sprintf("%d: %s", task.ID, task.Text))
	}
	return strings.Join(lines, "\n")
}
