package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type pollRepository struct {
	mu    sync.RWMutex
	polls map[uuid.UUID]domain.Poll
}

func NewPollRepository() ports.PollRepository {
	return &pollRepository{polls: make(map[uuid.UUID]domain.Poll)}
}

func (r *pollRepository) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls[poll.ID] = clonePoll(*poll)
	return nil
}

func (r *pollRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	out := clonePoll(poll)
	return &out, nil
}

// List returns polls newest first.
func (r *pollRepository) List(_ context.Context) ([]*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Poll, 0, len(r.polls))
	for _, poll := range r.polls {
		p := clonePoll(poll)
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *pollRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

func clonePoll(p domain.Poll) domain.Poll {
	p.Options = append([]domain.PollOption(nil), p.Options...)
	return p
}
