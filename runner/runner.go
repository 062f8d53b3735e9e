package runner

import (
	"context"
	"time"

	"github.com/joshkgarber/incontext/access"
	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/logging"
	"github.com/joshkgarber/incontext/model"
	"github.com/joshkgarber/incontext/store"
	"github.com/joshkgarber/incontext/transcript"
)

// Options holds configuration overrides passed to New().
type Options struct {
	Logger logging.Logger
}

// Runner coordinates a conversation turn: authorization, transcript
// assembly, adapter selection, the provider call, and persisting the reply.
// Public methods are safe for concurrent use.
type Runner struct {
	store    *store.Store
	access   *access.Resolver
	builder  *transcript.Builder
	registry *model.Registry
	logger   logging.Logger
}

// New constructs a Runner with optional overrides.
func New(s *store.Store, r *access.Resolver, b *transcript.Builder, reg *model.Registry, optFns ...func(o *Options)) *Runner {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{store: s, access: r, builder: b, registry: reg, logger: opts.Logger}
}

// AppendHumanTurn appends a user-authored message to the conversation after
// authorizing the caller. Empty text is a validation failure.
func (r *Runner) AppendHumanTurn(ctx context.Context, user core.User, conversationID int64, text string) (core.Message, error) {
	if err := r.access.Authorize(ctx, user, core.KindConversation, conversationID, core.ModeWrite); err != nil {
		return core.Message{}, err
	}
	if text == "" {
		return core.Message{}, &core.ValidationError{Fields: []string{"message"}}
	}
	return r.store.AppendMessage(ctx, conversationID, text, true)
}

// ProduceAgentTurn issues exactly one provider call for the conversation's
// current transcript and appends the reply as an agent message. On a vendor
// failure nothing is appended and the failure is returned for display.
func (r *Runner) ProduceAgentTurn(ctx context.Context, user core.User, conversationID int64) (core.Message, error) {
	if err := r.access.Authorize(ctx, user, core.KindConversation, conversationID, core.ModeWrite); err != nil {
		return core.Message{}, err
	}

	t, err := r.builder.Build(ctx, conversationID)
	if err != nil {
		return core.Message{}, err
	}

	adapter, err := r.registry.Resolve(t.Agent.Vendor)
	if err != nil {
		return core.Message{}, err
	}

	invocationID := core.NewID()
	start := time.Now()
	reply, err := adapter.Send(ctx, t)
	if err != nil {
		r.logger.Error("vendor call failed",
			"invocation_id", invocationID,
			"conversation", conversationID,
			"vendor", t.Agent.Vendor,
			"model", t.Agent.Model,
			"duration", time.Since(start),
			"error", err,
		)
		return core.Message{}, err
	}
	r.logger.Info("vendor call completed",
		"invocation_id", invocationID,
		"conversation", conversationID,
		"vendor", t.Agent.Vendor,
		"model", t.Agent.Model,
		"duration", time.Since(start),
	)

	return r.store.AppendMessage(ctx, conversationID, reply, false)
}
