package access

import (
	"context"
	"fmt"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/logging"
	"github.com/joshkgarber/incontext/store"
)

// Options holds configuration overrides passed to New().
type Options struct {
	// Logger receives authorization decisions at debug level.
	Logger logging.Logger
}

// Resolver answers "may this user perform this operation on this entity" by
// walking the entity's ownership chain. It is a pure decision function over
// current store state; it never mutates anything.
type Resolver struct {
	store  *store.Store
	logger logging.Logger
	chains map[core.Kind]ownerChain
}

// ownerChain resolves the owning user ids for one entity kind. It returns
// *core.NotFoundError when the entity does not exist, and an empty slice for
// entities (items, details) no list chain reaches.
type ownerChain func(ctx context.Context, s *store.Store, id int64) ([]int64, error)

// New constructs a Resolver over the given store.
func New(s *store.Store, optFns ...func(o *Options)) *Resolver {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Resolver{
		store:  s,
		logger: opts.Logger,
		chains: map[core.Kind]ownerChain{
			core.KindAgent: func(ctx context.Context, s *store.Store, id int64) ([]int64, error) {
				a, err := s.GetAgent(ctx, id)
				if err != nil {
					return nil, err
				}
				return []int64{a.CreatorID}, nil
			},
			core.KindContext: func(ctx context.Context, s *store.Store, id int64) ([]int64, error) {
				c, err := s.GetContext(ctx, id)
				if err != nil {
					return nil, err
				}
				return []int64{c.CreatorID}, nil
			},
			core.KindList: func(ctx context.Context, s *store.Store, id int64) ([]int64, error) {
				l, err := s.GetList(ctx, id)
				if err != nil {
					return nil, err
				}
				return []int64{l.CreatorID}, nil
			},
			core.KindConversation: func(ctx context.Context, s *store.Store, id int64) ([]int64, error) {
				c, err := s.GetConversation(ctx, id)
				if err != nil {
					return nil, err
				}
				return []int64{c.CreatorID}, nil
			},
			// Messages inherit ownership from their conversation.
			core.KindMessage: func(ctx context.Context, s *store.Store, id int64) ([]int64, error) {
				m, err := s.GetMessage(ctx, id)
				if err != nil {
					return nil, err
				}
				c, err := s.GetConversation(ctx, m.ConversationID)
				if err != nil {
					return nil, err
				}
				return []int64{c.CreatorID}, nil
			},
			// Items and details derive ownership through the lists that
			// reference them. No referencing list means no owner, which
			// leaves them reachable by admins only.
			core.KindItem: func(ctx context.Context, s *store.Store, id int64) ([]int64, error) {
				if _, err := s.GetItem(ctx, id); err != nil {
					return nil, err
				}
				return s.ListOwnerIDsForItem(ctx, id)
			},
			core.KindDetail: func(ctx context.Context, s *store.Store, id int64) ([]int64, error) {
				if _, err := s.GetDetail(ctx, id); err != nil {
					return nil, err
				}
				return s.ListOwnerIDsForDetail(ctx, id)
			},
		},
	}
}

// Authorize checks whether user may perform mode on the entity identified by
// kind and id. It returns nil on allow, *core.NotFoundError when the entity
// does not exist, and *core.ForbiddenError when the user is neither owner
// nor admin. Read and write currently require the same ownership.
func (r *Resolver) Authorize(ctx context.Context, user core.User, kind core.Kind, id int64, mode core.Mode) error {
	chain, ok := r.chains[kind]
	if !ok {
		return fmt.Errorf("no ownership chain for kind %q", kind)
	}

	owners, err := chain(ctx, r.store, id)
	if err != nil {
		return err
	}

	if user.Admin {
		r.logger.Debug("authorized via admin bypass", "user", user.ID, "kind", kind, "id", id, "mode", mode)
		return nil
	}
	for _, owner := range owners {
		if owner == user.ID {
			r.logger.Debug("authorized as owner", "user", user.ID, "kind", kind, "id", id, "mode", mode)
			return nil
		}
	}

	r.logger.Debug("access denied", "user", user.ID, "kind", kind, "id", id)
	return &core.ForbiddenError{Kind: kind, ID: id}
}
