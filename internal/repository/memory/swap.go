package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/msomdec/skill-swap/internal/domain"
)

// SwapRepository implements domain.SwapRequestRepository in memory.
type SwapRepository struct {
	mu    sync.RWMutex
	swaps map[string]*domain.SwapRequest
}

func NewSwapRepository() *SwapRepository {
	return &SwapRepository{swaps: make(map[string]*domain.SwapRequest)}
}

func (r *SwapRepository) Create(ctx context.Context, swap *domain.SwapRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if swap.ID == "" {
		swap.ID = uuid.NewString()
	}
	r.swaps[swap.ID] = cloneSwap(swap)
	return nil
}

func (r *SwapRepository) GetByID(ctx context.Context, id string) (*domain.SwapRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.swaps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSwap(s), nil
}

func (r *SwapRepository) Update(ctx context.Context, swap *domain.SwapRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.swaps[swap.ID]; !ok {
		return domain.ErrNotFound
	}
	r.swaps[swap.ID] = cloneSwap(swap)
	return nil
}

func (r *SwapRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.swaps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.swaps, id)
	return nil
}

func (r *SwapRepository) List(ctx context.Context, filter domain.SwapFilter) ([]domain.SwapRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var swaps []domain.SwapRequest
	for _, s := range r.swaps {
		if filter.Matches(s) {
			swaps = append(swaps, *cloneSwap(s))
		}
	}
	slices.SortFunc(swaps, func(a, b domain.SwapRequest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return swaps, nil
}

func cloneSwap(s *domain.SwapRequest) *domain.SwapRequest {
	c := *s
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		c.UpdatedAt = &t
	}
	if s.Rating != nil {
		v := *s.Rating
		c.Rating = &v
	}
	if s.Feedback != nil {
		v := *s.Feedback
		c.Feedback = &v
	}
	return &c
}
