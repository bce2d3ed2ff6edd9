package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/skill-swap/internal/domain"
)

func TestSwapRepository_CreateGetUpdate(t *testing.T) {
	db := newTestDB(t)
	users := db.Users()
	swaps := db.Swaps()
	ctx := context.Background()

	a := createUser(t, users, "a@example.com", "Guitar")
	b := createUser(t, users, "b@example.com", "Spanish")

	swap := &domain.SwapRequest{
		RequesterID:    a.ID,
		RecipientID:    b.ID,
		OfferedSkill:   "Guitar",
		RequestedSkill: "Spanish",
		Message:        "Hi",
		Status:         domain.SwapPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := swaps.Create(ctx, swap); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := swaps.GetByID(ctx, swap.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.SwapPending || got.UpdatedAt != nil || got.Rating != nil {
		t.Fatalf("unexpected fresh swap: %+v", got)
	}

	now := time.Now().UTC()
	rating, feedback := 4, "Great lesson"
	got.Status = domain.SwapCompleted
	got.UpdatedAt = &now
	got.Rating = &rating
	got.Feedback = &feedback
	got.RatedBy = a.ID
	if err := swaps.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	done, err := swaps.GetByID(ctx, swap.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if done.Status != domain.SwapCompleted || done.UpdatedAt == nil {
		t.Fatalf("expected completed with UpdatedAt, got %+v", done)
	}
	if done.Rating == nil || *done.Rating != 4 || done.Feedback == nil || *done.Feedback != feedback {
		t.Fatalf("rating/feedback not persisted: %+v", done)
	}
}

func TestSwapRepository_ListAndDelete(t *testing.T) {
	db := newTestDB(t)
	users := db.Users()
	swaps := db.Swaps()
	ctx := context.Background()

	a := createUser(t, users, "a@example.com", "Guitar")
	b := createUser(t, users, "b@example.com", "Spanish")
	c := createUser(t, users, "c@example.com", "Chess")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mk := func(from, to *domain.User, status domain.SwapStatus, at time.Time) *domain.SwapRequest {
		s := &domain.SwapRequest{
			RequesterID: from.ID, RecipientID: to.ID,
			OfferedSkill: "x", RequestedSkill: "y", Message: "m",
			Status: status, CreatedAt: at,
		}
		if err := swaps.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
		return s
	}
	first := mk(a, b, domain.SwapPending, base)
	second := mk(b, a, domain.SwapAccepted, base.Add(time.Minute))
	mk(c, b, domain.SwapPending, base)

	list, err := swaps.List(ctx, domain.SwapFilter{UserID: a.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected [second, first], got %+v", list)
	}

	received, err := swaps.List(ctx, domain.SwapFilter{UserID: b.ID, Direction: domain.DirectionReceived, Status: domain.SwapPending})
	if err != nil {
		t.Fatalf("List received: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("expected 2 pending received by b, got %d", len(received))
	}

	if err := swaps.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := swaps.GetByID(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := swaps.Delete(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	users := db.Users()
	repo := db.Notifications()
	ctx := context.Background()

	u := createUser(t, users, "n@example.com")
	base := time.Now().UTC()
	first := &domain.Notification{UserID: u.ID, Kind: domain.NotifySwapRequest, Message: "first", CreatedAt: base}
	second := &domain.Notification{UserID: u.ID, Kind: domain.NotifySystem, Message: "second", CreatedAt: base.Add(time.Second)}
	for _, n := range []*domain.Notification{first, second} {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.ListByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].Message != "second" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if err := repo.MarkRead(ctx, first.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	count, err := repo.CountUnread(ctx, u.ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}

	if err := repo.MarkAllRead(ctx, u.ID); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if count, _ := repo.CountUnread(ctx, u.ID); count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}
}
