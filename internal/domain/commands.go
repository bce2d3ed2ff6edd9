package domain

import (
	"fmt"
	"strings"
)

// CreateSwap proposes a new swap from RequesterID to RecipientID.
type CreateSwap struct {
	RequesterID    string
	RecipientID    string
	OfferedSkill   string
	RequestedSkill string
	Message        string
}

func (c CreateSwap) Validate() error {
	if c.RequesterID == "" || c.RecipientID == "" {
		return fmt.Errorf("%w: requester and recipient are required", ErrInvalidInput)
	}
	if c.RequesterID == c.RecipientID {
		return fmt.Errorf("%w: cannot request a swap with yourself", ErrInvalidInput)
	}
	if strings.TrimSpace(c.OfferedSkill) == "" || strings.TrimSpace(c.RequestedSkill) == "" {
		return fmt.Errorf("%w: offered and requested skills are required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	return nil
}

// SwapAction identifies a swap and the user attempting to act on it.
// Accept, reject, cancel and delete carry nothing else.
type SwapAction struct {
	RequestID    string
	ActingUserID string
}

func (a SwapAction) Validate() error {
	if a.RequestID == "" || a.ActingUserID == "" {
		return fmt.Errorf("%w: request and acting user are required", ErrInvalidInput)
	}
	return nil
}

type (
	AcceptSwap SwapAction
	RejectSwap SwapAction
	CancelSwap SwapAction
	DeleteSwap SwapAction
)

func (c AcceptSwap) Validate() error { return SwapAction(c).Validate() }
func (c RejectSwap) Validate() error { return SwapAction(c).Validate() }
func (c CancelSwap) Validate() error { return SwapAction(c).Validate() }
func (c DeleteSwap) Validate() error { return SwapAction(c).Validate() }

// CompleteSwap closes an accepted swap and rates the counterpart.
type CompleteSwap struct {
	RequestID    string
	ActingUserID string
	Rating       int // Clamped into [1,5] by the controller.
	Feedback     string
}

func (c CompleteSwap) Validate() error {
	return SwapAction{RequestID: c.RequestID, ActingUserID: c.ActingUserID}.Validate()
}
