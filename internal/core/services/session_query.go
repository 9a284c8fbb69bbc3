package services

import (
	"context"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type sessionQuery struct {
	loop      *Loop
	lifecycle *LifecycleService
}

// NewSessionQuery serves snapshot reads by running them on the loop.
func NewSessionQuery(loop *Loop, lifecycle *LifecycleService) ports.SessionQuery {
	return &sessionQuery{loop: loop, lifecycle: lifecycle}
}

func (q *sessionQuery) Snapshot(ctx context.Context, id domain.SessionID) (domain.Snapshot, error) {
	var (
		snap domain.Snapshot
		err  error
	)
	if doErr := q.loop.Do(ctx, func() {
		snap, err = q.lifecycle.Snapshot(id)
	}); doErr != nil {
		return domain.Snapshot{}, doErr
	}
	return snap, err
}
