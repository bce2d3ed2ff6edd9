package domain

import "context"

// Database defines lifecycle operations for the underlying storage backend.
// Each implementation (in-memory, SQLite) owns its own schema strategy,
// so the whole persistence layer is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error

	Users() UserRepository
	Swaps() SwapRequestRepository
	Notifications() NotificationRepository
	Sessions() SessionStore
}
