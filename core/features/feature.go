// Package features defines the feature module contract and the registry
// that routes command words to feature modules.
package features

import (
	"context"
	"strings"

	"github.com/jdelaire/gymbot/core/command"
)

// Feature is a self-contained handler for one family of commands.
type Feature interface {
	Name() string
	Commands() []string
	CanHandle(word string) bool
	Handle(ctx context.Context, mc command.MessageContext) (command.Result, error)
	Help() string
}

// MatchesCommand reports whether word is one of commands, or starts with one
// of them followed by a space.
func MatchesCommand(commands []string, word string) bool {
	for _, cmd := range commands {
		if word == cmd || strings.HasPrefix(word, cmd+" ") {
			return true
		}
	}
	return false
}

// Args returns what follows keyword in word ("todo buy chalk" -> "buy chalk").
func Args(word, keyword string) string {
	return strings.TrimSpace(strings.TrimPrefix(word, keyword))
}

// DefaultPrefix is the command prefix used when none is configured.
const DefaultPrefix = "#"

func prefixOrDefault(p string) string {
	if p == "" {
		return DefaultPrefix
	}
	return p
}

// Flags maps feature identifiers to their enabled state.
type Flags map[string]bool

// Enabled reports whether name is switched on. Unknown names are disabled.
func (f Flags) Enabled(name string) bool {
	return f[name]
}
