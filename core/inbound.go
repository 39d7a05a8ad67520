package core

import "time"

// InboundMessage is a chat message received from the transport.
type InboundMessage struct {
	ID             string
	ConversationID string
	// AuthorID is the author inside a group; empty in 1:1 conversations.
	AuthorID  string
	Body      string
	Timestamp time.Time
	Mentions  []string
}

// SenderID returns the author id, falling back to the conversation id.
func (m InboundMessage) SenderID() string {
	if m.AuthorID != "" {
		return m.AuthorID
	}
	return m.ConversationID
}

// MessageHandler processes an inbound message.
type MessageHandler func(msg InboundMessage)
