package features

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jdelaire/gymbot/core/command"
	"github.com/jdelaire/gymbot/core/metrics"
	tasksvc "github.com/jdelaire/gymbot/internal/tasks"
)

// TodoFeature keeps a per-user todo list.
type TodoFeature struct {
	Service *tasksvc.TaskService
	Metrics *metrics.Metrics
	Prefix  string
}

func (f *TodoFeature) Name() string       { return "todo" }
func (f *TodoFeature) Commands() []string { return []string{"todo", "todos", "done"} }

func (f *TodoFeature) CanHandle(word string) bool {
	return MatchesCommand(f.Commands(), word)
}

func (f *TodoFeature) Handle(ctx context.Context, mc command.MessageContext) (command.Result, error) {
	switch {
	case mc.Command == "todos":
		return f.list(ctx, mc)
	case MatchesCommand([]string{"done"}, mc.Command):
		return f.done(ctx, mc, Args(mc.Command, "done"))
	case MatchesCommand([]string{"todo"}, mc.Command):
		return f.create(ctx, mc)
	default:
		return command.NotHandled, nil
	}
}

func (f *TodoFeature) create(ctx context.Context, mc command.MessageContext) (command.Result, error) {
	text := todoText(mc.Text, prefixOrDefault(f.Prefix))
	task, err := f.Service.Create(ctx, mc.Sender, text)
	if errors.Is(err, tasksvc.ErrEmptyTaskText) {
		return command.Reply(fmt.Sprintf("Usage: %stodo <task description>", prefixOrDefault(f.Prefix))), nil
	}
	if err != nil {
		return command.NotHandled, err
	}
	f.Metrics.RecordPersisted(f.Name())
	return command.Reply(fmt.Sprintf("%d: %s", task.ID, task.Text)), nil
}

func (f *TodoFeature) list(ctx context.Context, mc command.MessageContext) (command.Result, error) {
	open, err := f.Service.ListOpen(ctx, mc.Sender)
	if err != nil {
		return command.NotHandled, err
	}
	return command.Reply(tasksvc.FormatList(open)), nil
}

func (f *TodoFeature) done(ctx context.Context, mc command.MessageContext, args string) (command.Result, error) {
	id, ok := parseDoneID(args)
	if !ok {
		return command.Reply(fmt.Sprintf("Usage: %sdone <id>", prefixOrDefault(f.Prefix))), nil
	}

	status, err := f.Service.Complete(ctx, mc.Sender, id)
	if err != nil {
		return command.NotHandled, err
	}

	switch status {
	case tasksvc.CompleteUpdated:
		return command.Reply(fmt.Sprintf("Done: %d", id)), nil
	case tasksvc.CompleteAlreadyDone:
		return command.Reply(fmt.Sprintf("Already done: %d", id)), nil
	default:
		return command.Reply(fmt.Sprintf("Unknown todo: %d", id)), nil
	}
}

func (f *TodoFeature) Help() string {
	p := prefixOrDefault(f.Prefix)
	return fmt.Sprintf("• %stodo <text> - add a todo\n• %stodos - list open todos\n• %sdone <id> - finish a todo", p, p, p)
}

// todoText takes the text after the keyword on the first line, falling back
// to the following lines. The original casing is kept.
func todoText(text, prefix string) string {
	first, rest, _ := strings.Cut(text, "\n")
	fields := strings.Fields(strings.TrimPrefix(first, prefix))
	if len(fields) > 1 {
		return strings.Join(fields[1:], " ")
	}
	return strings.TrimSpace(rest)
}

func parseDoneID(args string) (int64, bool) {
	parts := strings.Fields(strings.TrimSpace(args))
	if len(parts) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
