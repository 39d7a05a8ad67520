package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jdelaire/gymbot/core/metrics"
)

var (
	// ErrNoMessageHandle is returned by the reply strategy for pushes that
	// do not answer an inbound message.
	ErrNoMessageHandle = errors.New("no message to reply to")
	// ErrUndelivered means every delivery strategy failed.
	ErrUndelivered = errors.New("all delivery strategies failed")
)

type deliveryStrategy struct {
	name string
	send func(ctx context.Context, msg InboundMessage, text string) error
}

// Delivery sends text through an ordered chain of transport operations,
// stopping at the first that succeeds.
type Delivery struct {
	strategies []deliveryStrategy
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewDelivery builds the chain: direct send, send through the resolved
// conversation, then quoted reply on the original message.
func NewDelivery(t Transport, m *metrics.Metrics, logger *zap.Logger) *Delivery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Delivery{
		strategies: []deliveryStrategy{
			{name: "direct", send: func(ctx context.Context, msg InboundMessage, text string) error {
				return t.SendText(ctx, msg.ConversationID, text)
			}},
			{name: "resolved", send: func(ctx context.Context, msg InboundMessage, text string) error {
				conv, err := t.ResolveConversation(ctx, msg.ConversationID)
				if err != nil {
					return fmt.Errorf("resolve conversation: %w", err)
				}
				return conv.SendText(ctx, text)
			}},
			{name: "reply", send: func(ctx context.Context, msg InboundMessage, text string) error {
				if msg.ID == "" {
					return ErrNoMessageHandle
				}
				return t.Reply(ctx, msg, text)
			}},
		},
		metrics: m,
		logger:  logger,
	}
}

// SafeReply answers msg. Failures are logged, never returned.
func (d *Delivery) SafeReply(ctx context.Context, msg InboundMessage, text string) {
	_ = d.send(ctx, msg, text)
}

// Deliver pushes text to a conversation that did not message first.
func (d *Delivery) Deliver(ctx context.Context, conversationID, text string) error {
	return d.send(ctx, InboundMessage{ConversationID: conversationID}, text)
}

func (d *Delivery) send(ctx context.Context, msg InboundMessage, text string) error {
	for _, s := range d.strategies {
		err := s.send(ctx, msg, text)
		d.metrics.DeliveryAttempt(s.name, err == nil)
		if err == nil {
			return nil
		}
		d.logger.Debug("delivery attempt failed",
			zap.String("strategy", s.name),
			zap.String("conversation", msg.ConversationID),
			zap.Error(err))
	}

	d.logger.Error("message undelivered",
		zap.String("conversation", msg.ConversationID),
		zap.String("text", text))
	return ErrUndelivered
}
