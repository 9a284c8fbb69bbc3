package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type pollService struct {
	repo ports.PollRepository
	now  func() time.Time
}

func NewPollService(repo ports.PollRepository) ports.PollService {
	return &pollService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrValidation)
	}

	poll := &domain.Poll{
		ID:        uuid.New(),
		Question:  question,
		CreatedAt: s.now().UTC(),
	}

	for _, opt := range input.Options {
		text := strings.TrimSpace(opt.Text)
		if text == "" {
			continue
		}
		poll.Options = append(poll.Options, domain.PollOption{
			Text:      text,
			IsCorrect: opt.IsCorrect,
		})
	}

	if len(poll.Options) < 2 {
		return nil, fmt.Errorf("%w: at least two options are required", domain.ErrValidation)
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	return s.repo.GetByID(ctx, pollID)
}

func (s *pollService) ListPolls(ctx context.Context) ([]*domain.Poll, error) {
	polls, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	return polls, nil
}

func (s *pollService) DeletePoll(ctx context.Context, id string) error {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidPollID
	}

	if err := s.repo.Delete(ctx, pollID); err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return nil
}
