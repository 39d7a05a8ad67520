package core

import "context"

// Transport is the chat session the bot runs on.
type Transport interface {
	// SendText sends text straight to a conversation id.
	SendText(ctx context.Context, conversationID, text string) error
	// ResolveConversation looks up a conversation handle for an id.
	ResolveConversation(ctx context.Context, conversationID string) (Conversation, error)
	// Reply answers msg, quoting it.
	Reply(ctx context.Context, msg InboundMessage, text string) error
	// SelfIDs returns the session's own canonical ids.
	SelfIDs(ctx context.Context) ([]string, error)
}

// Conversation is a resolved chat handle.
type Conversation interface {
	SendText(ctx context.Context, text string) error
}
