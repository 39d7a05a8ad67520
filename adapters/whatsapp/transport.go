package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"

	"github.com/jdelaire/gymbot/core"
)

// ErrNotPaired is returned while no device session exists.
var ErrNotPaired = errors.New("whatsapp session not paired")

// legacyUserServer is the "c.us" server used by other WhatsApp clients.
const legacyUserServer = "c.us"

// SendText sends a plain text message to the conversation id as given.
func (c *Client) SendText(ctx context.Context, conversationID, text string) error {
	jid, err := types.ParseJID(conversationID)
	if err != nil {
		return fmt.Errorf("parse jid %q: %w", conversationID, err)
	}
	return c.send(ctx, jid, &waE2E.Message{Conversation: proto.String(text)})
}

// ResolveConversation normalizes conversationID into a routable chat
// address: legacy "c.us" ids are mapped and device suffixes removed.
func (c *Client) ResolveConversation(_ context.Context, conversationID string) (core.Conversation, error) {
	jid, err := resolveJID(conversationID)
	if err != nil {
		return nil, err
	}
	return &conversation{client: c, jid: jid}, nil
}

// Reply quotes msg in its conversation.
func (c *Client) Reply(ctx context.Context, msg core.InboundMessage, text string) error {
	jid, err := resolveJID(msg.ConversationID)
	if err != nil {
		return err
	}
	return c.send(ctx, jid, quotedReply(msg, text))
}

// SelfIDs returns the paired account's phone number id and, once assigned,
// its hidden-user id, both without device parts.
func (c *Client) SelfIDs(context.Context) ([]string, error) {
	if c.wa == nil || c.wa.Store == nil || c.wa.Store.ID == nil {
		return nil, ErrNotPaired
	}
	ids := []string{c.wa.Store.ID.ToNonAD().String()}
	if lid := c.wa.Store.LID; !lid.IsEmpty() {
		ids = append(ids, lid.ToNonAD().String())
	}
	return ids, nil
}

func (c *Client) send(ctx context.Context, jid types.JID, m *waE2E.Message) error {
	if c.wa == nil || !c.wa.IsConnected() {
		return errors.New("whatsapp client not connected")
	}
	_, err := c.wa.SendMessage(ctx, jid, m, whatsmeow.SendRequestExtra{ID: c.wa.GenerateMessageID()})
	if err != nil {
		return fmt.Errorf("send to %s: %w", jid, err)
	}
	return nil
}

type conversation struct {
	client *Client
	jid    types.JID
}

func (cv *conversation) SendText(ctx context.Context, text string) error {
	return cv.client.send(ctx, cv.jid, &waE2E.Message{Conversation: proto.String(text)})
}

func resolveJID(id string) (types.JID, error) {
	id = strings.TrimSpace(id)
	if !strings.Contains(id, "@") {
		id += "@" + types.DefaultUserServer
	}
	jid, err := types.ParseJID(id)
	if err != nil {
		return types.JID{}, fmt.Errorf("parse jid %q: %w", id, err)
	}
	if jid.Server == legacyUserServer {
		jid.Server = types.DefaultUserServer
	}
	return jid.ToNonAD(), nil
}

func quotedReply(msg core.InboundMessage, text string) *waE2E.Message {
	participant := msg.SenderID()
	return &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text: proto.String(text),
			ContextInfo: &waE2E.ContextInfo{
				StanzaID:      proto.String(msg.ID),
				Participant:   proto.String(participant),
				QuotedMessage: &waE2E.Message{Conversation: proto.String(msg.Body)},
			},
		},
	}
}
