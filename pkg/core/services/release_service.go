package services

import (
	"context"
	"errors"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

type ReleaseService struct {
	repo     ports.ReleaseRepository
	observer ports.ReleaseWriteObserver
}

// NewReleaseService wires the release use cases. observer may be nil.
func NewReleaseService(repo ports.ReleaseRepository, observer ports.ReleaseWriteObserver) *ReleaseService {
	return &ReleaseService{repo: repo, observer: observer}
}

func (s *ReleaseService) observe(op string, err error) {
	if s.observer != nil {
		s.observer.ObserveReleaseWrite(op, err)
	}
}

func (s *ReleaseService) ListReleases(ctx context.Context) ([]domain.Release, error) {
	releases, err := s.repo.ListReleases(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch releases", err)
	}
	return releases, nil
}

func (s *ReleaseService) GetRelease(ctx context.Context, slug string) (*domain.ReleaseDetail, error) {
	release, err := s.repo.GetReleaseBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError("Release not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch release", err)
	}
	return s.withLinks(ctx, release, "Failed to fetch release")
}

// CreateRelease validates in, rejects a taken title or slug, then writes the
// release and its links in one transaction.
func (s *ReleaseService) CreateRelease(ctx context.Context, in ports.ReleaseInput) (detail *domain.ReleaseDetail, err error) {
	defer func() { s.observe("create", err) }()

	release, err := validateRelease(in)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, release, 0, "Failed to create release"); err != nil {
		return nil, err
	}

	err = s.repo.WithinTx(ctx, func(tx ports.ReleaseTx) error {
		if err := tx.InsertRelease(ctx, release); err != nil {
			return err
		}
		return insertLinks(ctx, tx, release.ID, in.Links)
	})
	if err != nil {
		return nil, writeError(err, "Failed to create release")
	}

	return s.reload(ctx, release.ID, "Failed to create release")
}

// UpdateRelease overwrites the release at slug. A nil in.Links keeps the
// current links; any other value replaces them all.
func (s *ReleaseService) UpdateRelease(ctx context.Context, slug string, in ports.ReleaseInput) (detail *domain.ReleaseDetail, err error) {
	defer func() { s.observe("update", err) }()

	release, err := validateRelease(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetReleaseBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError("Release not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("Failed to update release", err)
	}
	release.ID = existing.ID

	if err := s.ensureAvailable(ctx, release, existing.ID, "Failed to update release"); err != nil {
		return nil, err
	}

	err = s.repo.WithinTx(ctx, func(tx ports.ReleaseTx) error {
		if err := tx.UpdateRelease(ctx, release); err != nil {
			return err
		}
		if in.Links == nil {
			return nil
		}
		if err := tx.DeleteLinks(ctx, release.ID); err != nil {
			return err
		}
		return insertLinks(ctx, tx, release.ID, in.Links)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError("Release not found")
	}
	if err != nil {
		return nil, writeError(err, "Failed to update release")
	}

	return s.reload(ctx, release.ID, "Failed to update release")
}

func (s *ReleaseService) DeleteRelease(ctx context.Context, id int64) (err error) {
	defer func() { s.observe("delete", err) }()

	if _, err := s.repo.GetReleaseByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFoundError("Release not found")
		}
		return domain.NewInternalError("Failed to delete release", err)
	}

	err = s.repo.DeleteRelease(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError("Release not found")
	}
	if err != nil {
		return domain.NewInternalError("Failed to delete release", err)
	}
	return nil
}

// ensureAvailable reports a conflict when another release (not selfID)
// already uses r's title or slug.
func (s *ReleaseService) ensureAvailable(ctx context.Context, r *domain.Release, selfID int64, failMsg string) error {
	checks := []struct {
		lookup func(context.Context, string) (*domain.Release, error)
		value  string
		msg    string
	}{
		{s.repo.GetReleaseByTitle, r.Title, "A release with this title already exists"},
		{s.repo.GetReleaseBySlug, r.URLTitle, "A release with this URL title already exists"},
	}
	for _, c := range checks {
		other, err := c.lookup(ctx, c.value)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return domain.NewInternalError(failMsg, err)
		case other.ID != selfID:
			return domain.NewConflictError(c.msg, nil)
		}
	}
	return nil
}

func (s *ReleaseService) reload(ctx context.Context, id int64, failMsg string) (*domain.ReleaseDetail, error) {
	release, err := s.repo.GetReleaseByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(failMsg, err)
	}
	return s.withLinks(ctx, release, failMsg)
}

func (s *ReleaseService) withLinks(ctx context.Context, r *domain.Release, failMsg string) (*domain.ReleaseDetail, error) {
	links, err := s.repo.ListReleaseLinks(ctx, r.ID)
	if err != nil {
		return nil, domain.NewInternalError(failMsg, err)
	}
	return &domain.ReleaseDetail{Release: *r, Links: links}, nil
}

func insertLinks(ctx context.Context, tx ports.ReleaseTx, releaseID int64, links []ports.LinkInput) error {
	for _, in := range links {
		link, err := validateLink(releaseID, in)
		if err != nil {
			return err
		}
		if err := tx.InsertLink(ctx, link); err != nil {
			return err
		}
	}
	return nil
}

// writeError classifies a failed release transaction. Unique violations
// raised at write or commit time lose a race with a concurrent writer.
func writeError(err error, failMsg string) error {
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, domain.ErrUniqueViolation):
		return domain.NewConflictError("A release with this title or URL title already exists", err)
	default:
		return domain.NewInternalError(failMsg, err)
	}
}
