package whatsapp

import (
	"strings"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/jdelaire/gymbot/core"
)

// toInbound converts a whatsmeow message event. It reports false for events
// the bot never handles: its own messages, status broadcasts and messages
// without text.
func toInbound(evt *events.Message) (core.InboundMessage, bool) {
	if evt == nil || evt.Message == nil {
		return core.InboundMessage{}, false
	}
	info := evt.Info
	if info.IsFromMe || info.Chat.Server == types.BroadcastServer {
		return core.InboundMessage{}, false
	}

	body := messageText(evt.Message)
	if strings.TrimSpace(body) == "" {
		return core.InboundMessage{}, false
	}

	msg := core.InboundMessage{
		ID:             info.ID,
		ConversationID: info.Chat.ToNonAD().String(),
		Body:           body,
		Timestamp:      info.Timestamp,
		Mentions:       mentions(evt.Message),
	}
	if info.IsGroup {
		msg.AuthorID = author(info.MessageSource).String()
	}
	return msg, true
}

// author returns the sender's phone number id. Groups in LID addressing mode
// carry it in SenderAlt while Sender holds the hidden-user id.
func author(src types.MessageSource) types.JID {
	if src.AddressingMode == types.AddressingModeLID && !src.SenderAlt.IsEmpty() {
		return src.SenderAlt.ToNonAD()
	}
	return src.Sender.ToNonAD()
}

func messageText(m *waE2E.Message) string {
	if text := m.GetConversation(); text != "" {
		return text
	}
	if text := m.GetExtendedTextMessage().GetText(); text != "" {
		return text
	}
	return m.GetImageMessage().GetCaption()
}

func mentions(m *waE2E.Message) []string {
	if ext := m.GetExtendedTextMessage(); ext != nil {
		return ext.GetContextInfo().GetMentionedJID()
	}
	return m.GetImageMessage().GetContextInfo().GetMentionedJID()
}
