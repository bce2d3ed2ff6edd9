package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/skill-swap/internal/domain"
)

func TestNotificationService_ReadFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := createMember(t, env, "a@example.com", "A", nil, nil)
	b := createMember(t, env, "b@example.com", "B", nil, nil)

	first, err := env.notes.Notify(ctx, a.ID, domain.NotifySystem, "one")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if _, err := env.notes.Notify(ctx, a.ID, domain.NotifySystem, "two"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	count, _ := env.notes.UnreadCount(ctx, a.ID)
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	if err := env.notes.MarkRead(ctx, b.ID, first.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized marking another user's notification, got %v", err)
	}
	if err := env.notes.MarkRead(ctx, a.ID, first.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	count, _ = env.notes.UnreadCount(ctx, a.ID)
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}

	if err := env.notes.MarkAllRead(ctx, a.ID); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	count, _ = env.notes.UnreadCount(ctx, a.ID)
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}

	list, _ := env.notes.ListForUser(ctx, a.ID)
	if len(list) != 2 || list[0].Message != "two" {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestNotificationService_Broadcast(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	createMember(t, env, "a@example.com", "A", nil, nil)
	banned := createMember(t, env, "b@example.com", "B", nil, nil)
	createAdmin(t, env)
	if _, err := env.users.SetBanned(ctx, banned.ID, true); err != nil {
		t.Fatalf("SetBanned: %v", err)
	}

	n, err := env.notes.Broadcast(ctx, domain.PlatformMessage{Title: "Maintenance", Content: "Down at noon", Type: domain.MessageWarning})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 recipients, got %d", n)
	}

	list, _ := env.notes.ListForUser(ctx, banned.ID)
	if len(list) != 0 {
		t.Fatal("banned users should not receive broadcasts")
	}

	if _, err := env.notes.Broadcast(ctx, domain.PlatformMessage{Title: "", Content: "x"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := env.notes.Broadcast(ctx, domain.PlatformMessage{Title: "t", Content: "x", Type: "shout"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
}

func TestNotificationService_BroadcastDefaultsToInfo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := createMember(t, env, "a@example.com", "A", nil, nil)

	if _, err := env.notes.Broadcast(ctx, domain.PlatformMessage{Title: "Hello", Content: "Welcome"}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	list, _ := env.notes.ListForUser(ctx, a.ID)
	if len(list) != 1 || !strings.HasPrefix(list[0].Message, "[info]") || list[0].Kind != domain.NotifySystem {
		t.Fatalf("unexpected broadcast notification %+v", list)
	}
}
