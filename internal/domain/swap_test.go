package domain_test

import (
	"testing"

	"github.com/msomdec/skill-swap/internal/domain"
)

func TestSwapStatus_CanTransition(t *testing.T) {
	all := []domain.SwapStatus{
		domain.SwapPending, domain.SwapAccepted, domain.SwapRejected,
		domain.SwapCompleted, domain.SwapCancelled,
	}
	legal := map[[2]domain.SwapStatus]bool{
		{domain.SwapPending, domain.SwapAccepted}:   true,
		{domain.SwapPending, domain.SwapRejected}:   true,
		{domain.SwapPending, domain.SwapCancelled}:  true,
		{domain.SwapAccepted, domain.SwapCompleted}: true,
		{domain.SwapAccepted, domain.SwapCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransition(to)
			if got != legal[[2]domain.SwapStatus{from, to}] {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, !got, got)
			}
		}
	}
}

func TestSwapRequest_Counterpart(t *testing.T) {
	swap := &domain.SwapRequest{RequesterID: "a", RecipientID: "b"}
	if got := swap.Counterpart("a"); got != "b" {
		t.Errorf("Counterpart(requester) = %q, want b", got)
	}
	if got := swap.Counterpart("b"); got != "a" {
		t.Errorf("Counterpart(recipient) = %q, want a", got)
	}
}

func TestSwapFilter_Matches(t *testing.T) {
	swap := &domain.SwapRequest{RequesterID: "a", RecipientID: "b", Status: domain.SwapPending}

	tests := []struct {
		name   string
		filter domain.SwapFilter
		want   bool
	}{
		{"empty filter", domain.SwapFilter{}, true},
		{"requester all", domain.SwapFilter{UserID: "a"}, true},
		{"recipient all", domain.SwapFilter{UserID: "b"}, true},
		{"stranger", domain.SwapFilter{UserID: "c"}, false},
		{"sent by requester", domain.SwapFilter{UserID: "a", Direction: domain.DirectionSent}, true},
		{"sent by recipient", domain.SwapFilter{UserID: "b", Direction: domain.DirectionSent}, false},
		{"received by recipient", domain.SwapFilter{UserID: "b", Direction: domain.DirectionReceived}, true},
		{"status match", domain.SwapFilter{Status: domain.SwapPending}, true},
		{"status mismatch", domain.SwapFilter{Status: domain.SwapAccepted}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(swap); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestUser_AddRating(t *testing.T) {
	u := &domain.User{Rating: domain.DefaultRating}

	u.AddRating(4)
	if u.Rating != 4 || u.RatingCount != 1 {
		t.Fatalf("first rating: expected 4.0 over 1, got %.2f over %d", u.Rating, u.RatingCount)
	}

	u.AddRating(5)
	if u.Rating != 4.5 || u.RatingCount != 2 {
		t.Fatalf("second rating: expected 4.5 over 2, got %.2f over %d", u.Rating, u.RatingCount)
	}
}

func TestCreateSwap_Validate(t *testing.T) {
	valid := domain.CreateSwap{
		RequesterID: "a", RecipientID: "b",
		OfferedSkill: "Guitar", RequestedSkill: "Spanish", Message: "Hi",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}

	self := valid
	self.RecipientID = "a"
	blank := valid
	blank.Message = "   "

	for name, cmd := range map[string]domain.CreateSwap{"self": self, "blank message": blank} {
		if err := cmd.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
