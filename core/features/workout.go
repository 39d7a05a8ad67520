package features

import (
	"context"
	"fmt"

	"github.com/jdelaire/gymbot/core/command"
	"github.com/jdelaire/gymbot/core/metrics"
	"github.com/jdelaire/gymbot/internal/workout"
)

// WorkoutFeature logs and lists workouts.
type WorkoutFeature struct {
	Service *workout.Service
	Metrics *metrics.Metrics
	Prefix  string
}

func (f *WorkoutFeature) Name() string       { return "workout" }
func (f *WorkoutFeature) Commands() []string { return []string{"workout", "list"} }

func (f *WorkoutFeature) CanHandle(word string) bool {
	return MatchesCommand(f.Commands(), word)
}

func (f *WorkoutFeature) Handle(ctx context.Context, mc command.MessageContext) (command.Result, error) {
	switch {
	case mc.Command == "list":
		return f.list(ctx, mc)
	case MatchesCommand([]string{"workout"}, mc.Command):
		return f.log(ctx, mc)
	default:
		return command.NotHandled, nil
	}
}

func (f *WorkoutFeature) list(ctx context.Context, mc command.MessageContext) (command.Result, error) {
	records, err := f.Service.Recent(ctx, mc.Sender)
	if err != nil {
		return command.NotHandled, err
	}
	return command.Reply(workout.FormatList(records, f.Service.Clock())), nil
}

func (f *WorkoutFeature) log(ctx context.Context, mc command.MessageContext) (command.Result, error) {
	entry, err := workout.ParseEntry(command.ParseKeyValue(mc.Text))
	if err != nil {
		return command.Reply(workout.UsageMessage), nil
	}

	rec, err := f.Service.Log(ctx, mc.Sender, entry)
	if err != nil {
		return command.NotHandled, err
	}
	f.Metrics.RecordPersisted(f.Name())

	band := f.Service.Clock().CurrentBand()
	return command.Reply(workout.FormatLogged(rec, band)), nil
}

func (f *WorkoutFeature) Help() string {
	p := prefixOrDefault(f.Prefix)
	return fmt.Sprintf("• %sworkout - log a workout\n• %slist - see your recent workouts", p, p)
}
