package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/msomdec/skill-swap/internal/domain"
)

// SwapService is the swap lifecycle controller. It enforces the legal status
// transitions, authorizes the acting user and emits the notifications and
// reputation updates each transition implies.
//
// Mutations are serialized so each call either applies fully or not at all.
// User counters and ratings change only through RecordCompletion, never a
// whole-record write.
type SwapService struct {
	mu       sync.Mutex
	swaps    domain.SwapRequestRepository
	users    domain.UserRepository
	notifier *NotificationService
	now      func() time.Time
}

// NewSwapService creates a new SwapService.
func NewSwapService(swaps domain.SwapRequestRepository, users domain.UserRepository, notifier *NotificationService) *SwapService {
	return &SwapService{swaps: swaps, users: users, notifier: notifier, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *SwapService) WithClock(now func() time.Time) *SwapService {
	s.now = now
	return s
}

// Create opens a new pending swap request and notifies the recipient.
func (s *SwapService) Create(ctx context.Context, cmd domain.CreateSwap) (*domain.SwapRequest, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	requester, err := s.users.GetByID(ctx, cmd.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("get requester: %w", err)
	}
	recipient, err := s.users.GetByID(ctx, cmd.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("get recipient: %w", err)
	}

	if requester.IsBanned {
		return nil, fmt.Errorf("%w: banned users cannot request swaps", domain.ErrUnauthorized)
	}
	if recipient.IsBanned {
		return nil, fmt.Errorf("%w: recipient is not available", domain.ErrInvalidInput)
	}
	if !requester.Offers(cmd.OfferedSkill) {
		return nil, fmt.Errorf("%w: %q is not one of your offered skills", domain.ErrInvalidInput, cmd.OfferedSkill)
	}

	message := sanitizeText(cmd.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	swap := &domain.SwapRequest{
		RequesterID:    requester.ID,
		RecipientID:    recipient.ID,
		OfferedSkill:   cmd.OfferedSkill,
		RequestedSkill: sanitizeText(cmd.RequestedSkill),
		Message:        message,
		Status:         domain.SwapPending,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.swaps.Create(ctx, swap); err != nil {
		return nil, fmt.Errorf("create swap: %w", err)
	}

	slog.Info("swap requested", "swap_id", swap.ID, "requester_id", requester.ID, "recipient_id", recipient.ID)
	s.notify(ctx, recipient.ID, domain.NotifySwapRequest,
		fmt.Sprintf("%s wants to swap skills with you", requester.Name))
	return swap, nil
}

// Accept moves a pending request to accepted. Only the recipient may accept.
func (s *SwapService) Accept(ctx context.Context, cmd domain.AcceptSwap) (*domain.SwapRequest, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.respond(ctx, domain.SwapAction(cmd), domain.SwapAccepted, domain.NotifySwapAccepted, "accepted")
}

// Reject moves a pending request to rejected. Only the recipient may reject.
func (s *SwapService) Reject(ctx context.Context, cmd domain.RejectSwap) (*domain.SwapRequest, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.respond(ctx, domain.SwapAction(cmd), domain.SwapRejected, domain.NotifySwapRejected, "declined")
}

func (s *SwapService) respond(ctx context.Context, a domain.SwapAction, next domain.SwapStatus, kind domain.NotificationKind, verb string) (*domain.SwapRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	swap, err := s.swaps.GetByID(ctx, a.RequestID)
	if err != nil {
		return nil, err
	}
	if swap.RecipientID != a.ActingUserID {
		return nil, fmt.Errorf("%w: only the recipient can respond to a request", domain.ErrUnauthorized)
	}
	if err := s.transition(ctx, swap, next); err != nil {
		return nil, err
	}

	s.notify(ctx, swap.RequesterID, kind,
		fmt.Sprintf("%s %s your swap request for %s", s.displayName(ctx, a.ActingUserID), verb, swap.RequestedSkill))
	return swap, nil
}

// Cancel withdraws a pending or accepted request. The requester or an
// administrator may cancel.
func (s *SwapService) Cancel(ctx context.Context, cmd domain.CancelSwap) (*domain.SwapRequest, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	swap, err := s.swaps.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	byAdmin := false
	if swap.RequesterID != cmd.ActingUserID {
		actor, err := s.users.GetByID(ctx, cmd.ActingUserID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get acting user: %w", err)
		}
		if actor == nil || !actor.IsAdmin() || actor.IsBanned {
			return nil, fmt.Errorf("%w: only the requester or an administrator can cancel", domain.ErrUnauthorized)
		}
		byAdmin = true
	}

	if err := s.transition(ctx, swap, domain.SwapCancelled); err != nil {
		return nil, err
	}

	if byAdmin {
		text := fmt.Sprintf("An administrator cancelled the swap of %s for %s", swap.OfferedSkill, swap.RequestedSkill)
		s.notify(ctx, swap.RequesterID, domain.NotifySystem, text)
		s.notify(ctx, swap.RecipientID, domain.NotifySystem, text)
	} else {
		s.notify(ctx, swap.Counterpart(cmd.ActingUserID), domain.NotifySystem,
			fmt.Sprintf("%s cancelled their swap request for %s", s.displayName(ctx, swap.RequesterID), swap.RequestedSkill))
	}
	return swap, nil
}

// Complete closes an accepted swap. Either participant may complete it; the
// acting user rates the counterpart. Both participants' completed-swap counts
// are incremented.
func (s *SwapService) Complete(ctx context.Context, cmd domain.CompleteSwap) (*domain.SwapRequest, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	swap, err := s.swaps.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	if !swap.Involves(cmd.ActingUserID) {
		return nil, fmt.Errorf("%w: only participants can complete a swap", domain.ErrUnauthorized)
	}
	if !swap.Status.CanTransition(domain.SwapCompleted) {
		return nil, invalidTransition(swap.Status, domain.SwapCompleted)
	}

	rated := swap.Counterpart(cmd.ActingUserID)
	if _, err := s.users.GetByID(ctx, rated); err != nil {
		return nil, fmt.Errorf("get rated user: %w", err)
	}
	origSwap := *swap

	rating := ClampRating(cmd.Rating)
	feedback := sanitizeText(cmd.Feedback)
	now := s.now().UTC()

	swap.Status = domain.SwapCompleted
	swap.UpdatedAt = &now
	swap.Rating = &rating
	swap.Feedback = &feedback
	swap.RatedBy = cmd.ActingUserID

	if err := s.swaps.Update(ctx, swap); err != nil {
		return nil, fmt.Errorf("update swap: %w", err)
	}
	completion := domain.Completion{RaterID: cmd.ActingUserID, RatedID: rated, Rating: rating}
	if err := s.users.RecordCompletion(ctx, completion); err != nil {
		s.rollback(ctx, &origSwap)
		return nil, fmt.Errorf("record completion: %w", err)
	}

	slog.Info("swap completed", "swap_id", swap.ID, "rated_user_id", rated, "rating", rating)
	s.notify(ctx, rated, domain.NotifySwapCompleted,
		fmt.Sprintf("%s marked your swap of %s for %s as completed and rated you %d/5",
			s.displayName(ctx, cmd.ActingUserID), swap.OfferedSkill, swap.RequestedSkill, rating))
	return swap, nil
}

// Delete removes a pending or cancelled request. Only the requester may delete.
func (s *SwapService) Delete(ctx context.Context, cmd domain.DeleteSwap) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	swap, err := s.swaps.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return err
	}
	if swap.RequesterID != cmd.ActingUserID {
		return fmt.Errorf("%w: only the requester can delete a request", domain.ErrUnauthorized)
	}
	if swap.Status != domain.SwapPending && swap.Status != domain.SwapCancelled {
		return fmt.Errorf("%w: cannot delete a %s request", domain.ErrInvalidTransition, swap.Status)
	}

	if err := s.swaps.Delete(ctx, swap.ID); err != nil {
		return fmt.Errorf("delete swap: %w", err)
	}
	slog.Info("swap deleted", "swap_id", swap.ID)
	return nil
}

// GetByID returns a single request.
func (s *SwapService) GetByID(ctx context.Context, id string) (*domain.SwapRequest, error) {
	return s.swaps.GetByID(ctx, id)
}

// ListForUser returns the user's requests in the given direction, optionally
// narrowed to one status.
func (s *SwapService) ListForUser(ctx context.Context, userID string, direction domain.SwapDirection, status domain.SwapStatus) ([]domain.SwapRequest, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.swaps.List(ctx, domain.SwapFilter{UserID: userID, Direction: direction, Status: status})
}

// ListAll returns every request, optionally narrowed to one status.
func (s *SwapService) ListAll(ctx context.Context, status domain.SwapStatus) ([]domain.SwapRequest, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.swaps.List(ctx, domain.SwapFilter{Status: status})
}

// PlatformStats summarizes the marketplace for administrators.
type PlatformStats struct {
	ActiveUsers    int
	BannedUsers    int
	PendingSwaps   int
	AcceptedSwaps  int
	CompletedSwaps int
	TotalSwaps     int
}

// Stats counts users and swaps by state.
func (s *SwapService) Stats(ctx context.Context) (PlatformStats, error) {
	var stats PlatformStats

	users, err := s.users.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		switch {
		case u.IsBanned:
			stats.BannedUsers++
		case !u.IsAdmin():
			stats.ActiveUsers++
		}
	}

	swaps, err := s.swaps.List(ctx, domain.SwapFilter{})
	if err != nil {
		return stats, fmt.Errorf("list swaps: %w", err)
	}
	stats.TotalSwaps = len(swaps)
	for _, sw := range swaps {
		switch sw.Status {
		case domain.SwapPending:
			stats.PendingSwaps++
		case domain.SwapAccepted:
			stats.AcceptedSwaps++
		case domain.SwapCompleted:
			stats.CompletedSwaps++
		}
	}
	return stats, nil
}

// UserSummary is the per-user dashboard view.
type UserSummary struct {
	Pending   int
	Accepted  int
	Completed int
	Recent    []domain.SwapRequest
}

const recentActivityLimit = 5

// Summary counts the user's requests by status and returns the most recent ones.
func (s *SwapService) Summary(ctx context.Context, userID string) (UserSummary, error) {
	var sum UserSummary
	swaps, err := s.swaps.List(ctx, domain.SwapFilter{UserID: userID})
	if err != nil {
		return sum, fmt.Errorf("list swaps: %w", err)
	}
	for _, sw := range swaps {
		switch sw.Status {
		case domain.SwapPending:
			sum.Pending++
		case domain.SwapAccepted:
			sum.Accepted++
		case domain.SwapCompleted:
			sum.Completed++
		}
	}
	sum.Recent = swaps[:min(len(swaps), recentActivityLimit)]
	return sum, nil
}

// ClampRating forces a rating into the 1–5 range.
func ClampRating(r int) int {
	return min(max(r, 1), 5)
}

// transition applies next to swap if the edge is legal and persists it.
func (s *SwapService) transition(ctx context.Context, swap *domain.SwapRequest, next domain.SwapStatus) error {
	if !swap.Status.CanTransition(next) {
		return invalidTransition(swap.Status, next)
	}
	prev := swap.Status
	now := s.now().UTC()
	swap.Status = next
	swap.UpdatedAt = &now
	if err := s.swaps.Update(ctx, swap); err != nil {
		swap.Status = prev
		return fmt.Errorf("update swap: %w", err)
	}
	slog.Info("swap transitioned", "swap_id", swap.ID, "from", prev, "to", next)
	return nil
}

// rollback restores a swap written before a later step failed.
func (s *SwapService) rollback(ctx context.Context, swap *domain.SwapRequest) {
	if err := s.swaps.Update(ctx, swap); err != nil {
		slog.Error("rollback swap", "swap_id", swap.ID, "error", err)
	}
}

// notify delivers a notification; failures are logged and never undo the transition.
func (s *SwapService) notify(ctx context.Context, userID string, kind domain.NotificationKind, message string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, kind, message); err != nil {
		slog.Warn("notify user", "user_id", userID, "kind", kind, "error", err)
	}
}

func (s *SwapService) displayName(ctx context.Context, userID string) string {
	if u, err := s.users.GetByID(ctx, userID); err == nil && u.Name != "" {
		return u.Name
	}
	return "Someone"
}

func invalidTransition(from, to domain.SwapStatus) error {
	return fmt.Errorf("%w: cannot move a %s request to %s", domain.ErrInvalidTransition, from, to)
}
