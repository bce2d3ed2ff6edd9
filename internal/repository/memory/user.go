package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/skill-swap/internal/domain"
)

// UserRepository implements domain.UserRepository with an ordered slice.
type UserRepository struct {
	mu    sync.RWMutex
	users []*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexByEmail(user.Email) >= 0 {
		return domain.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.JoinedAt.IsZero() {
		user.JoinedAt = now
	}
	user.UpdatedAt = now
	r.users = append(r.users, user.Clone())
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByID(id); i >= 0 {
		return r.users[i].Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByEmail(email); i >= 0 {
		return r.users[i].Clone(), nil
	}
	return nil, domain.ErrNotFound
}

// Update replaces the stored record with the same ID.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(user.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if j := r.indexByEmail(user.Email); j >= 0 && j != i {
		return domain.ErrDuplicateEmail
	}

	user.UpdatedAt = time.Now().UTC()
	r.users[i] = user.Clone()
	return nil
}

func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.users[i].IsBanned = banned
	r.users[i].UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	p.Apply(r.users[i])
	r.users[i].UpdatedAt = time.Now().UTC()
	return nil
}

// RecordCompletion applies both participants' counters and the rating together.
func (r *UserRepository) RecordCompletion(ctx context.Context, c domain.Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rater, rated := r.indexByID(c.RaterID), r.indexByID(c.RatedID)
	if rater < 0 || rated < 0 {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	for _, i := range []int{rater, rated} {
		r.users[i].CompletedSwaps++
		r.users[i].UpdatedAt = now
	}
	r.users[rated].AddRating(c.Rating)
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, len(r.users))
	for i, u := range r.users {
		users[i] = *u.Clone()
	}
	return users, nil
}

func (r *UserRepository) indexByID(id string) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepository) indexByEmail(email string) int {
	for i, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return i
		}
	}
	return -1
}
