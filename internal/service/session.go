package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/skill-swap/internal/domain"
)

// DefaultSessionTTL is how long a saved session stays restorable.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionService persists the current user snapshot in an expiring cell.
type SessionService struct {
	store domain.SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionService creates a SessionService over the given store.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionService(store domain.SessionStore, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{store: store, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// TTL returns the restore window.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// sessionCell is the persisted layout: {"user": {...}, "savedAt": <epoch ms>}.
type sessionCell struct {
	User    sessionUser `json:"user"`
	SavedAt int64       `json:"savedAt"`
}

type sessionUser struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Location       string    `json:"location,omitempty"`
	ProfilePhoto   string    `json:"profilePhoto,omitempty"`
	SkillsOffered  []string  `json:"skillsOffered"`
	SkillsWanted   []string  `json:"skillsWanted"`
	Availability   []string  `json:"availability"`
	IsPublic       bool      `json:"isPublic"`
	Role           string    `json:"role"`
	Rating         float64   `json:"rating"`
	RatingCount    int       `json:"ratingCount"`
	CompletedSwaps int       `json:"completedSwaps"`
	JoinedDate     time.Time `json:"joinedDate"`
	IsBanned       bool      `json:"isBanned"`
}

// Save stores a snapshot of user together with the current time.
func (s *SessionService) Save(ctx context.Context, key string, user *domain.User) error {
	cell := sessionCell{
		User: sessionUser{
			ID:             user.ID,
			Name:           user.Name,
			Email:          user.Email,
			Location:       user.Location,
			ProfilePhoto:   user.PhotoURL,
			SkillsOffered:  user.SkillsOffered,
			SkillsWanted:   user.SkillsWanted,
			Availability:   user.Availability,
			IsPublic:       user.IsPublic,
			Role:           string(user.Role),
			Rating:         user.Rating,
			RatingCount:    user.RatingCount,
			CompletedSwaps: user.CompletedSwaps,
			JoinedDate:     user.JoinedAt,
			IsBanned:       user.IsBanned,
		},
		SavedAt: s.now().UnixMilli(),
	}

	data, err := json.Marshal(cell)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Restore returns the saved user while the cell is inside the TTL window.
// Expired or unreadable cells are cleared and reported as domain.ErrNotFound.
func (s *SessionService) Restore(ctx context.Context, key string) (*domain.User, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var cell sessionCell
	if err := json.Unmarshal(data, &cell); err != nil {
		slog.Warn("discarding unreadable session", "error", err)
		return nil, s.expire(ctx, key)
	}

	age := s.now().Sub(time.UnixMilli(cell.SavedAt))
	if age > s.ttl {
		return nil, s.expire(ctx, key)
	}

	u := cell.User
	return &domain.User{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Location:       u.Location,
		PhotoURL:       u.ProfilePhoto,
		SkillsOffered:  u.SkillsOffered,
		SkillsWanted:   u.SkillsWanted,
		Availability:   u.Availability,
		IsPublic:       u.IsPublic,
		Role:           domain.Role(u.Role),
		Rating:         u.Rating,
		RatingCount:    u.RatingCount,
		CompletedSwaps: u.CompletedSwaps,
		JoinedAt:       u.JoinedDate,
		IsBanned:       u.IsBanned,
	}, nil
}

// Clear removes the session cell.
func (s *SessionService) Clear(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionService) expire(ctx context.Context, key string) error {
	if err := s.Clear(ctx, key); err != nil {
		return err
	}
	return domain.ErrNotFound
}
