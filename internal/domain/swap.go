package domain

import (
	"context"
	"time"
)

type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCompleted SwapStatus = "completed"
	SwapCancelled SwapStatus = "cancelled"
)

// swapTransitions lists the legal edges of the swap lifecycle.
// Statuses absent from the map are terminal.
var swapTransitions = map[SwapStatus][]SwapStatus{
	SwapPending:  {SwapAccepted, SwapRejected, SwapCancelled},
	SwapAccepted: {SwapCompleted, SwapCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s SwapStatus) Valid() bool {
	switch s {
	case SwapPending, SwapAccepted, SwapRejected, SwapCompleted, SwapCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal edge.
func (s SwapStatus) CanTransition(next SwapStatus) bool {
	for _, to := range swapTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// SwapRequest is a proposal to exchange one offered skill for another user's skill.
type SwapRequest struct {
	ID             string
	RequesterID    string
	RecipientID    string
	OfferedSkill   string
	RequestedSkill string
	Message        string
	Status         SwapStatus
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	Rating         *int    // Set only once completed.
	Feedback       *string // Set only once completed.
	RatedBy        string  // User who submitted the rating.
}

// Counterpart returns the other participant relative to userID.
func (s *SwapRequest) Counterpart(userID string) string {
	if s.RequesterID == userID {
		return s.RecipientID
	}
	return s.RequesterID
}

// Involves reports whether userID is the requester or the recipient.
func (s *SwapRequest) Involves(userID string) bool {
	return s.RequesterID == userID || s.RecipientID == userID
}

type SwapDirection string

const (
	DirectionAll      SwapDirection = "all"
	DirectionSent     SwapDirection = "sent"
	DirectionReceived SwapDirection = "received"
)

// SwapFilter narrows swap queries. Zero values match everything.
type SwapFilter struct {
	UserID    string
	Direction SwapDirection
	Status    SwapStatus
}

// Matches reports whether s satisfies the filter.
func (f SwapFilter) Matches(s *SwapRequest) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.UserID == "" {
		return true
	}
	switch f.Direction {
	case DirectionSent:
		return s.RequesterID == f.UserID
	case DirectionReceived:
		return s.RecipientID == f.UserID
	default:
		return s.Involves(f.UserID)
	}
}

// SwapRequestRepository handles swap request persistence.
type SwapRequestRepository interface {
	Create(ctx context.Context, swap *SwapRequest) error
	GetByID(ctx context.Context, id string) (*SwapRequest, error)
	Update(ctx context.Context, swap *SwapRequest) error
	Delete(ctx context.Context, id string) error
	// List returns matching requests, newest first.
	List(ctx context.Context, filter SwapFilter) ([]SwapRequest, error)
}
