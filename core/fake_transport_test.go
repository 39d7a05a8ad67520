package core

import (
	"context"
	"errors"
	"sync"
)

type sentMessage struct {
	strategy       string
	conversationID string
	text           string
}

// fakeTransport records sends. Each strategy can be made to fail.
type fakeTransport struct {
	mu   sync.Mutex
	sent []sentMessage

	selfIDs []string
	selfErr error

	failDirect   bool
	failResolve  bool
	failResolved bool
	failReply    bool

	calls []string
}

var errFake = errors.New("transport exploded")

func (f *fakeTransport) record(strategy, conv, text string, fail bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, strategy)
	if fail {
		return errFake
	}
	f.sent = append(f.sent, sentMessage{strategy: strategy, conversationID: conv, text: text})
	return nil
}

func (f *fakeTransport) SendText(_ context.Context, conv, text string) error {
	return f.record("direct", conv, text, f.failDirect)
}

func (f *fakeTransport) ResolveConversation(_ context.Context, conv string) (Conversation, error) {
	if f.failResolve {
		f.mu.Lock()
		f.calls = append(f.calls, "resolve")
		f.mu.Unlock()
		return nil, errFake
	}
	return &fakeConversation{t: f, id: conv}, nil
}

func (f *fakeTransport) Reply(_ context.Context, msg InboundMessage, text string) error {
	return f.record("reply", msg.ConversationID, text, f.failReply)
}

func (f *fakeTransport) SelfIDs(context.Context) ([]string, error) {
	return f.selfIDs, f.selfErr
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeTransport) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].text
}

func (f *fakeTransport) attempts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeConversation struct {
	t  *fakeTransport
	id string
}

func (c *fakeConversation) SendText(_ context.Context, text string) error {
	return c.t.record("resolved", c.id, text, c.t.failResolved)
}
