package assessment

import (
	"context"

	"github.com/abhisek/assess/internal/profile"
)

// SessionRepo persists assessment sessions.
type SessionRepo interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
}

// ItemRepo persists assessment items.
type ItemRepo interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)

	// BySession returns the session's items ordered by question number.
	BySession(ctx context.Context, sessionID string) ([]*Item, error)

	// SaveAnswer persists the grading result for an item. The write is
	// guarded: it fails with *ErrAlreadyAnswered if the item was already
	// answered, enforcing write-once at the storage layer.
	SaveAnswer(ctx context.Context, item *Item) error
}

// Repos bundles the repositories the engine mutates, with a transactional
// boundary so each operation's writes land all-or-nothing.
type Repos interface {
	Sessions() SessionRepo
	Items() ItemRepo
	Profiles() profile.Store

	// Transact runs fn against transaction-scoped repositories. A non-nil
	// error rolls every write back.
	Transact(ctx context.Context, fn func(Repos) error) error
}
