package core

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jdelaire/gymbot/core/features"
	"github.com/jdelaire/gymbot/core/metrics"
	"github.com/jdelaire/gymbot/core/policy"
	"github.com/jdelaire/gymbot/core/ratelimit"
)

// Dispatcher routes inbound messages: greeting, group gating, authorization,
// feature dispatch, reply.
type Dispatcher struct {
	self     SelfIdentifier
	policy   *policy.Policy
	features *features.Registry
	delivery *Delivery
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics
	prefix   string
	logger   *zap.Logger
	pick     func(n int) int
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(self SelfIdentifier, pol *policy.Policy, reg *features.Registry, delivery *Delivery, prefix string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = features.DefaultPrefix
	}
	return &Dispatcher{
		self:     self,
		policy:   pol,
		features: reg,
		delivery: delivery,
		prefix:   prefix,
		logger:   logger,
		pick:     rand.IntN,
	}
}

// WithLimiter throttles authorized senders.
func (d *Dispatcher) WithLimiter(l *ratelimit.Limiter) *Dispatcher {
	d.limiter = l
	return d
}

// WithMetrics records dispatch outcomes.
func (d *Dispatcher) WithMetrics(m *metrics.Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// Handle processes one inbound message to completion. It never panics or
// returns an error; failures are logged and the message is dropped.
func (d *Dispatcher) Handle(ctx context.Context, msg InboundMessage) {
	log := d.logger.With(
		zap.String("trace_id", uuid.NewString()),
		zap.String("conversation", msg.ConversationID),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling message", zap.Any("panic", r))
			d.metrics.Dispatch(metrics.OutcomeFailed)
		}
	}()

	d.metrics.Dispatch(d.route(ctx, msg, log))
}

func (d *Dispatcher) route(ctx context.Context, msg InboundMessage, log *zap.Logger) string {
	mc := ExtractContext(ctx, msg, d.self, log)
	log = log.With(zap.String("sender", mc.Sender))

	if mc.IsBotMentioned && isGreeting(mc.TextLower) {
		log.Info("greeting")
		d.greet(ctx, msg, mc.Sender)
		return metrics.OutcomeGreeting
	}

	isCommand := strings.HasPrefix(mc.Text, d.prefix)

	if mc.IsGroup && !mc.IsBotMentioned && !isCommand {
		log.Debug("ignoring group chatter")
		return metrics.OutcomeGroupIgnored
	}

	if !isCommand {
		return metrics.OutcomeNotCommand
	}

	if !d.policy.IsAllowed(mc.Sender) {
		log.Info("blocked message from unauthorized sender")
		return metrics.OutcomeUnauthorized
	}

	if !d.limiter.Allow(mc.Sender) {
		log.Debug("sender throttled")
		return metrics.OutcomeThrottled
	}

	if mc.IsGroup {
		log.Debug("processing group command")
	}

	result, err := d.features.Handle(ctx, mc)
	if err != nil {
		log.Error("command failed", zap.Error(err))
		return metrics.OutcomeFailed
	}

	switch {
	case result.Handled && result.Response != "":
		d.delivery.SafeReply(ctx, msg, result.Response)
		return metrics.OutcomeReplied
	case result.Handled:
		return metrics.OutcomeSilent
	default:
		d.delivery.SafeReply(ctx, msg, unknownCommandMessage(d.help()))
		return metrics.OutcomeUnknown
	}
}

func (d *Dispatcher) greet(ctx context.Context, msg InboundMessage, sender string) {
	if !d.policy.IsAllowed(sender) {
		d.delivery.SafeReply(ctx, msg, notRegisteredMessage)
		return
	}
	opening := greetingOpenings[d.pick(len(greetingOpenings))]
	d.delivery.SafeReply(ctx, msg, greetingMessage(opening, d.help()))
}

func (d *Dispatcher) help() string {
	return helpMessage(d.features.Help(), d.prefix)
}
