package features

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jdelaire/gymbot/core/command"
)

type entry struct {
	id      string
	feature Feature
}

// Registry holds enabled features in registration order. The first feature
// whose CanHandle accepts a command word wins.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	flags   Flags
	prefix  string
	logger  *zap.Logger
}

// NewRegistry creates an empty registry. flags gates registration and prefix
// is the command prefix stripped when deriving command words.
func NewRegistry(flags Flags, prefix string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{flags: flags, prefix: prefix, logger: logger}
}

// Register adds f under id when the id is enabled. Disabled ids are skipped
// without error; duplicate ids are rejected.
func (r *Registry) Register(id string, f Feature) error {
	if !r.flags.Enabled(id) {
		r.logger.Info("feature disabled", zap.String("feature", f.Name()))
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.id == id {
			return fmt.Errorf("feature already registered: %s", id)
		}
	}
	r.entries = append(r.entries, entry{id: id, feature: f})
	r.logger.Info("feature registered", zap.String("feature", f.Name()), zap.Strings("commands", f.Commands()))
	return nil
}

// FindHandler returns the first feature accepting word, or nil.
func (r *Registry) FindHandler(word string) Feature {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.feature.CanHandle(word) {
			return e.feature
		}
	}
	return nil
}

// Handle routes mc to the matching feature. It returns command.NotHandled
// when no feature accepts the command word.
func (r *Registry) Handle(ctx context.Context, mc command.MessageContext) (command.Result, error) {
	word := command.Word(mc.Text, r.prefix)
	if word == "" {
		return command.NotHandled, nil
	}

	f := r.FindHandler(word)
	if f == nil {
		return command.NotHandled, nil
	}

	r.logger.Debug("routing to feature", zap.String("feature", f.Name()), zap.String("command", word))
	mc.Command = word
	return f.Handle(ctx, mc)
}

// All returns registered features in registration order.
func (r *Registry) All() []Feature {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Feature, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.feature
	}
	return out
}

// Help joins each feature's help text, one block per feature.
func (r *Registry) Help() string {
	all := r.All()
	blocks := make([]string, 0, len(all))
	for _, f := range all {
		blocks = append(blocks, f.Help())
	}
	return strings.Join(blocks, "\n")
}
