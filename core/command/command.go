// Package command holds the per-message types shared by the dispatcher and
// feature modules, plus the command text helpers.
package command

import "strings"

// MessageContext is the normalized view of one inbound message.
type MessageContext struct {
	ConversationID string
	MessageID      string
	Sender         string
	Text           string
	TextLower      string
	IsGroup        bool
	IsBotMentioned bool

	// Command is the lowercased command word, set by the feature registry
	// before a feature is invoked.
	Command string
}

// Result is what a feature returns for a command.
// A handled result with an empty Response means "no reply".
type Result struct {
	Handled  bool
	Response string
}

// Reply returns a handled result carrying text.
func Reply(text string) Result {
	return Result{Handled: true, Response: text}
}

// NotHandled is the result for commands a feature declines.
var NotHandled = Result{}

// Word returns the command word of text: everything after prefix up to the
// first line break, trimmed and lowercased. It returns "" when text does not
// start with prefix.
func Word(text, prefix string) string {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return ""
	}
	rest := text[len(prefix):]
	if i := strings.IndexByte(rest, '\n'); i != -1 {
		rest = rest[:i]
	}
	return strings.ToLower(strings.TrimSpace(rest))
}

// ParseKeyValue parses the lines after the first one as "key: value" pairs.
// Each line is split on the first colon and both sides are trimmed. Lines
// without a colon or with an empty key or value are skipped. Later keys
// overwrite earlier ones.
func ParseKeyValue(body string) map[string]string {
	out := make(map[string]string)

	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return out
	}

	for _, line := range lines[1:] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
