package store

import (
	"context"

	cleanupPort "feedline/internal/ports/imagecleanup"
	postPort "feedline/internal/ports/post"
	userPort "feedline/internal/ports/user"
)

// Stores repositories bound to one connection or one transaction.
type Stores interface {
	Posts() postPort.PostRepository
	Users() userPort.UserRepository
	Cleanup() cleanupPort.CleanupRepository
}

// Transactor runs fn against stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Stores
	WithinTx(ctx context.Context, fn func(tx Stores) error) error
}
