package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/skill-swap/internal/domain"
)

// NotificationService creates and reads per-user notifications.
type NotificationService struct {
	notifications domain.NotificationRepository
	users         domain.UserRepository
	now           func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications domain.NotificationRepository, users domain.UserRepository) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, now: time.Now}
}

// Notify queues a notification for userID.
func (s *NotificationService) Notify(ctx context.Context, userID string, kind domain.NotificationKind, message string) (*domain.Notification, error) {
	n := &domain.Notification{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	slog.Debug("notification queued", "user_id", userID, "kind", kind)
	return n, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return domain.ErrUnauthorized
	}
	return s.notifications.MarkRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// Broadcast delivers a platform message to every non-banned user as a system
// notification and returns how many were delivered.
func (s *NotificationService) Broadcast(ctx context.Context, msg domain.PlatformMessage) (int, error) {
	title := sanitizeText(msg.Title)
	content := sanitizeText(msg.Content)
	if title == "" || content == "" {
		return 0, fmt.Errorf("%w: title and content are required", domain.ErrInvalidInput)
	}
	switch msg.Type {
	case "":
		msg.Type = domain.MessageInfo
	case domain.MessageInfo, domain.MessageWarning, domain.MessageUpdate:
	default:
		return 0, fmt.Errorf("%w: unknown message type %q", domain.ErrInvalidInput, msg.Type)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	text := fmt.Sprintf("[%s] %s: %s", msg.Type, title, content)
	delivered := 0
	for _, u := range users {
		if u.IsBanned {
			continue
		}
		if _, err := s.Notify(ctx, u.ID, domain.NotifySystem, text); err != nil {
			return delivered, err
		}
		delivered++
	}
	slog.Info("platform message broadcast", "type", msg.Type, "recipients", delivered)
	return delivered, nil
}
