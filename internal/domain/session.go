package domain

import "context"

// SessionStore is a key-value cell store for persisted sessions.
// Values are opaque documents; the session layer owns their encoding.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
