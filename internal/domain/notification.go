package domain

import (
	"context"
	"time"
)

type NotificationKind string

const (
	NotifySwapRequest   NotificationKind = "swap_request"
	NotifySwapAccepted  NotificationKind = "swap_accepted"
	NotifySwapRejected  NotificationKind = "swap_rejected"
	NotifySwapCompleted NotificationKind = "swap_completed"
	NotifySystem        NotificationKind = "system"
)

type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	Message   string
	Read      bool
	CreatedAt time.Time
}

type MessageType string

const (
	MessageInfo    MessageType = "info"
	MessageWarning MessageType = "warning"
	MessageUpdate  MessageType = "update"
)

// PlatformMessage is an administrator announcement delivered to every active user.
type PlatformMessage struct {
	Title   string
	Content string
	Type    MessageType
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}
