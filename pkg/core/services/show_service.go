package services

import (
	"context"
	"errors"
	"time"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

type ShowService struct {
	repo ports.ShowRepository
	now  func() time.Time
}

func NewShowService(repo ports.ShowRepository) *ShowService {
	return &ShowService{repo: repo, now: time.Now}
}

// WithClock replaces the time source that decides which shows are upcoming.
func (s *ShowService) WithClock(now func() time.Time) *ShowService {
	s.now = now
	return s
}

func (s *ShowService) ListShows(ctx context.Context) ([]domain.Show, error) {
	shows, err := s.repo.ListShows(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch shows", err)
	}
	return shows, nil
}

// UpcomingShows returns shows dated today (UTC) or later.
func (s *ShowService) UpcomingShows(ctx context.Context) (*domain.UpcomingShows, error) {
	today := domain.DateOf(s.now().UTC())
	shows, err := s.repo.ListShowsFrom(ctx, today)
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch upcoming shows", err)
	}
	return &domain.UpcomingShows{
		Shows:            shows,
		Count:            len(shows),
		HasUpcomingShows: len(shows) > 0,
	}, nil
}

func (s *ShowService) GetShow(ctx context.Context, id int64) (*domain.Show, error) {
	show, err := s.repo.GetShow(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError("Show not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch show", err)
	}
	return show, nil
}

func (s *ShowService) CreateShow(ctx context.Context, in ports.ShowInput) (*domain.Show, error) {
	show, err := validateShow(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateShow(ctx, show); err != nil {
		return nil, domain.NewInternalError("Failed to create show", err)
	}
	return s.reload(ctx, show.ID, "Failed to create show")
}

func (s *ShowService) UpdateShow(ctx context.Context, id int64, in ports.ShowInput) (*domain.Show, error) {
	show, err := validateShow(in)
	if err != nil {
		return nil, err
	}
	show.ID = id

	err = s.repo.UpdateShow(ctx, show)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError("Show not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("Failed to update show", err)
	}
	return s.reload(ctx, id, "Failed to update show")
}

func (s *ShowService) DeleteShow(ctx context.Context, id int64) error {
	err := s.repo.DeleteShow(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError("Show not found")
	}
	if err != nil {
		return domain.NewInternalError("Failed to delete show", err)
	}
	return nil
}

func (s *ShowService) reload(ctx context.Context, id int64, failMsg string) (*domain.Show, error) {
	show, err := s.repo.GetShow(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(failMsg, err)
	}
	return show, nil
}
