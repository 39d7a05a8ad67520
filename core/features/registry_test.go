package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jdelaire/gymbot/core/command"
)

type stubFeature struct {
	name     string
	commands []string
	calls    []string
}

func (s *stubFeature) Name() string       { return s.name }
func (s *stubFeature) Commands() []string { return s.commands }
func (s *stubFeature) CanHandle(word string) bool {
	return MatchesCommand(s.commands, word)
}
func (s *stubFeature) Handle(_ context.Context, mc command.MessageContext) (command.Result, error) {
	s.calls = append(s.calls, mc.Command)
	return command.Reply(s.name + ":" + mc.Command), nil
}
func (s *stubFeature) Help() string { return "• " + s.name }

func TestRegistryFirstMatchWins(t *testing.T) {
	reg := NewRegistry(Flags{"a": true, "b": true}, "#", zaptest.NewLogger(t))
	a := &stubFeature{name: "a", commands: []string{"list"}}
	b := &stubFeature{name: "b", commands: []string{"list", "log"}}
	require.NoError(t, reg.Register("a", a))
	require.NoError(t, reg.Register("b", b))

	assert.Same(t, a, reg.FindHandler("list"))
	assert.Same(t, b, reg.FindHandler("log"))
	assert.Nil(t, reg.FindHandler("dance"))

	res, err := reg.Handle(context.Background(), command.MessageContext{Text: "#List"})
	require.NoError(t, err)
	assert.Equal(t, command.Reply("a:list"), res)
	assert.Empty(t, b.calls)
}

func TestRegistryDisabledFeatureSkipped(t *testing.T) {
	reg := NewRegistry(Flags{"on": true, "off": false}, "#", zaptest.NewLogger(t))
	require.NoError(t, reg.Register("on", &stubFeature{name: "on", commands: []string{"x"}}))
	require.NoError(t, reg.Register("off", &stubFeature{name: "off", commands: []string{"y"}}))
	require.NoError(t, reg.Register("unknown", &stubFeature{name: "unknown", commands: []string{"z"}}))

	require.Len(t, reg.All(), 1)
	assert.Nil(t, reg.FindHandler("y"))
	assert.Nil(t, reg.FindHandler("z"))
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	reg := NewRegistry(Flags{"a": true}, "#", zaptest.NewLogger(t))
	require.NoError(t, reg.Register("a", &stubFeature{name: "a"}))
	assert.Error(t, reg.Register("a", &stubFeature{name: "again"}))
	assert.Len(t, reg.All(), 1)
}

func TestRegistryHandleWithoutPrefixOrMatch(t *testing.T) {
	reg := NewRegistry(Flags{"a": true}, "#", zaptest.NewLogger(t))
	require.NoError(t, reg.Register("a", &stubFeature{name: "a", commands: []string{"list"}}))

	for _, text := range []string{"list", "#", "#dance", ""} {
		res, err := reg.Handle(context.Background(), command.MessageContext{Text: text})
		require.NoError(t, err)
		assert.False(t, res.Handled, text)
	}
}

func TestRegistryHelpInRegistrationOrder(t *testing.T) {
	reg := NewRegistry(Flags{"a": true, "b": true}, "#", zaptest.NewLogger(t))
	require.NoError(t, reg.Register("b", &stubFeature{name: "b"}))
	require.NoError(t, reg.Register("a", &stubFeature{name: "a"}))

	assert.Equal(t, "• b\n• a", reg.Help())
}

func TestMatchesCommand(t *testing.T) {
	cmds := []string{"todo", "done"}
	assert.True(t, MatchesCommand(cmds, "todo"))
	assert.True(t, MatchesCommand(cmds, "done 3"))
	assert.False(t, MatchesCommand(cmds, "todos"))
	assert.False(t, MatchesCommand(cmds, "don"))
}

func TestArgs(t *testing.T) {
	assert.Equal(t, "3", Args("done 3", "done"))
	assert.Equal(t, "", Args("done", "done"))
}
