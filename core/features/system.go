package features

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jdelaire/gymbot/core/command"
)

// SystemFeature answers #help and #status.
type SystemFeature struct {
	Registry *Registry
	Prefix   string

	started time.Time
	now     func() time.Time
}

// NewSystemFeature creates the feature; uptime is measured from now.
func NewSystemFeature(reg *Registry, prefix string) *SystemFeature {
	return &SystemFeature{Registry: reg, Prefix: prefix, started: time.Now(), now: time.Now}
}

// WithClock overrides the time source (for testing).
func (f *SystemFeature) WithClock(now func() time.Time) *SystemFeature {
	f.now = now
	f.started = now()
	return f
}

func (f *SystemFeature) Name() string       { return "system" }
func (f *SystemFeature) Commands() []string { return []string{"help", "status"} }

func (f *SystemFeature) CanHandle(word string) bool {
	return word == "help" || word == "status"
}

func (f *SystemFeature) Handle(_ context.Context, mc command.MessageContext) (command.Result, error) {
	switch mc.Command {
	case "help":
		return command.Reply("*What I can do:*\n" + f.Registry.Help()), nil
	case "status":
		return command.Reply(f.status()), nil
	default:
		return command.NotHandled, nil
	}
}

func (f *SystemFeature) status() string {
	uptime := f.now().Sub(f.started).Truncate(time.Second)
	return fmt.Sprintf("Status: OK\nUptime: %s\nFeatures: %d\nGo: %s\nGoroutines: %d",
		uptime, len(f.Registry.All()), runtime.Version(), runtime.NumGoroutine())
}

func (f *SystemFeature) Help() string {
	p := prefixOrDefault(f.Prefix)
	return fmt.Sprintf("• %shelp - show this list\n• %sstatus - bot uptime", p, p)
}
