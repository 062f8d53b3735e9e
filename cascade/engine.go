package cascade

import (
	"context"

	"github.com/joshkgarber/incontext/access"
	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/logging"
	"github.com/joshkgarber/incontext/store"
)

// Options holds configuration overrides passed to New().
type Options struct {
	Logger logging.Logger
}

// Engine computes and removes the full dependent set of a deletion root
// while leaving unrelated rows untouched.
type Engine struct {
	store  *store.Store
	access *access.Resolver
	logger logging.Logger
}

// New constructs an Engine over the given store and resolver.
func New(s *store.Store, r *access.Resolver, optFns ...func(o *Options)) *Engine {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{store: s, access: r, logger: opts.Logger}
}

// DeleteList removes a list, its relation rows, and every item and detail
// that no other list still references, together with the content cells of
// the removed items and details.
func (e *Engine) DeleteList(ctx context.Context, user core.User, id int64) error {
	if err := e.access.Authorize(ctx, user, core.KindList, id, core.ModeWrite); err != nil {
		return err
	}

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		itemIDs, err := tx.ListItemIDs(ctx, id)
		if err != nil {
			return err
		}
		detailIDs, err := tx.ListDetailIDs(ctx, id)
		if err != nil {
			return err
		}

		// Drop the root's relation rows first so the orphan counts below
		// reflect only surviving references.
		if err := tx.DeleteListItemRelationsByList(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteListDetailRelationsByList(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteContextListRelationsByList(ctx, id); err != nil {
			return err
		}

		for _, itemID := range itemIDs {
			refs, err := tx.CountListsReferencingItem(ctx, itemID)
			if err != nil {
				return err
			}
			if refs > 0 {
				continue
			}
			if err := tx.DeleteItemDetailRelationsByItem(ctx, itemID); err != nil {
				return err
			}
			if err := tx.DeleteItemRow(ctx, itemID); err != nil {
				return err
			}
		}

		for _, detailID := range detailIDs {
			refs, err := tx.CountListsReferencingDetail(ctx, detailID)
			if err != nil {
				return err
			}
			if refs > 0 {
				continue
			}
			if err := tx.DeleteItemDetailRelationsByDetail(ctx, detailID); err != nil {
				return err
			}
			if err := tx.DeleteDetailRow(ctx, detailID); err != nil {
				return err
			}
		}

		return tx.DeleteListRow(ctx, id)
	})
	if err != nil {
		return err
	}

	e.logger.Info("deleted list", "list", id, "user", user.ID)
	return nil
}

// DeleteConversation removes a conversation, its agent binding, its context
// links, and its entire message log.
func (e *Engine) DeleteConversation(ctx context.Context, user core.User, id int64) error {
	if err := e.access.Authorize(ctx, user, core.KindConversation, id, core.ModeWrite); err != nil {
		return err
	}

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		return deleteConversationTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	e.logger.Info("deleted conversation", "conversation", id, "user", user.ID)
	return nil
}

// DeleteContext removes a context and its relation rows. The lists and
// conversations it pointed at stay untouched; they may belong to other
// contexts or stand alone.
func (e *Engine) DeleteContext(ctx context.Context, user core.User, id int64) error {
	if err := e.access.Authorize(ctx, user, core.KindContext, id, core.ModeWrite); err != nil {
		return err
	}

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.DeleteContextListRelationsByContext(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteContextConversationRelationsByContext(ctx, id); err != nil {
			return err
		}
		return tx.DeleteContextRow(ctx, id)
	})
	if err != nil {
		return err
	}

	e.logger.Info("deleted context", "context", id, "user", user.ID)
	return nil
}

// DeleteItem removes an item from every list along with all its content
// cells.
func (e *Engine) DeleteItem(ctx context.Context, user core.User, id int64) error {
	if err := e.access.Authorize(ctx, user, core.KindItem, id, core.ModeWrite); err != nil {
		return err
	}

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.DeleteListItemRelationsByItem(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteItemDetailRelationsByItem(ctx, id); err != nil {
			return err
		}
		return tx.DeleteItemRow(ctx, id)
	})
	if err != nil {
		return err
	}

	e.logger.Info("deleted item", "item", id, "user", user.ID)
	return nil
}

// DeleteDetail removes a detail column from every list along with all its
// content cells.
func (e *Engine) DeleteDetail(ctx context.Context, user core.User, id int64) error {
	if err := e.access.Authorize(ctx, user, core.KindDetail, id, core.ModeWrite); err != nil {
		return err
	}

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.DeleteListDetailRelationsByDetail(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteItemDetailRelationsByDetail(ctx, id); err != nil {
			return err
		}
		return tx.DeleteDetailRow(ctx, id)
	})
	if err != nil {
		return err
	}

	e.logger.Info("deleted detail", "detail", id, "user", user.ID)
	return nil
}

// DeleteAgent removes an agent. Conversations are bound to exactly one agent
// for their whole life, so every conversation bound to the agent is deleted
// with it, messages and context links included.
func (e *Engine) DeleteAgent(ctx context.Context, user core.User, id int64) error {
	if err := e.access.Authorize(ctx, user, core.KindAgent, id, core.ModeWrite); err != nil {
		return err
	}

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		conversationIDs, err := tx.ConversationIDsByAgent(ctx, id)
		if err != nil {
			return err
		}
		for _, conversationID := range conversationIDs {
			if err := deleteConversationTx(ctx, tx, conversationID); err != nil {
				return err
			}
		}
		return tx.DeleteAgentRow(ctx, id)
	})
	if err != nil {
		return err
	}

	e.logger.Info("deleted agent", "agent", id, "user", user.ID)
	return nil
}

// deleteConversationTx removes one conversation and its dependents inside an
// existing transaction. Shared by DeleteConversation and DeleteAgent.
func deleteConversationTx(ctx context.Context, tx *store.Tx, id int64) error {
	if err := tx.DeleteConversationAgentRelation(ctx, id); err != nil {
		return err
	}
	if err := tx.DeleteContextConversationRelationsByConversation(ctx, id); err != nil {
		return err
	}
	if err := tx.DeleteMessagesByConversation(ctx, id); err != nil {
		return err
	}
	return tx.DeleteConversationRow(ctx, id)
}
