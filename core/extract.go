package core

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jdelaire/gymbot/core/command"
)

const groupSuffix = "@g.us"

var mentionToken = regexp.MustCompile(`@\d+\s*`)

// SelfIdentifier reports every id the bot's account is known by: its phone
// number id and, where assigned, its hidden-user (LID) id.
type SelfIdentifier interface {
	SelfIDs(ctx context.Context) ([]string, error)
}

// IsGroupConversation reports whether a conversation id addresses a group.
func IsGroupConversation(conversationID string) bool {
	return strings.HasSuffix(conversationID, groupSuffix)
}

// ExtractContext normalizes msg. In groups where the bot is mentioned, mention
// tokens are removed from Text so "@Bot #list" reads as "#list". TextLower
// keeps the unstripped body so "Hi @Bot" still reads as a greeting. When the
// bot's id cannot be determined the message is treated as not mentioning it.
func ExtractContext(ctx context.Context, msg InboundMessage, self SelfIdentifier, logger *zap.Logger) command.MessageContext {
	text := strings.TrimSpace(msg.Body)
	mc := command.MessageContext{
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID,
		Sender:         msg.SenderID(),
		IsGroup:        IsGroupConversation(msg.ConversationID),
	}

	if mc.IsGroup && len(msg.Mentions) > 0 {
		selfIDs, err := self.SelfIDs(ctx)
		if err != nil {
			logger.Warn("resolve bot id", zap.Error(err))
		} else {
			mc.IsBotMentioned = mentions(msg.Mentions, selfIDs)
		}
	}

	mc.Text = text
	mc.TextLower = strings.ToLower(text)
	if mc.IsBotMentioned {
		mc.Text = strings.TrimSpace(mentionToken.ReplaceAllString(text, ""))
		logger.Debug("group message mentions bot", zap.String("text", mc.Text))
	}
	return mc
}

func mentions(list []string, selfIDs []string) bool {
	for _, id := range selfIDs {
		self := bareJID(id)
		if self == "" {
			continue
		}
		for _, m := range list {
			if bareJID(m) == self {
				return true
			}
		}
	}
	return false
}

// bareJID drops a ":device" part from "user:device@server".
func bareJID(id string) string {
	user, server, found := strings.Cut(strings.TrimSpace(id), "@")
	if i := strings.IndexByte(user, ':'); i != -1 {
		user = user[:i]
	}
	if !found {
		return user
	}
	return user + "@" + server
}
