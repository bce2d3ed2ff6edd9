// Package memory provides in-process repositories. State lives only as long
// as the process.
package memory

import (
	"context"

	"github.com/msomdec/skill-swap/internal/domain"
)

// DB bundles the in-memory repositories behind domain.Database.
type DB struct {
	users         *UserRepository
	swaps         *SwapRepository
	notifications *NotificationRepository
	sessions      *SessionStore
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		users:         NewUserRepository(),
		swaps:         NewSwapRepository(),
		notifications: NewNotificationRepository(),
		sessions:      NewSessionStore(),
	}
}

// Migrate is a no-op; there is no schema.
func (db *DB) Migrate(ctx context.Context) error { return nil }

func (db *DB) Close() error { return nil }

func (db *DB) Users() domain.UserRepository                 { return db.users }
func (db *DB) Swaps() domain.SwapRequestRepository          { return db.swaps }
func (db *DB) Notifications() domain.NotificationRepository { return db.notifications }
func (db *DB) Sessions() domain.SessionStore                { return db.sessions }
