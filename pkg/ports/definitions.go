package ports

import (
	"context"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
)

// UserRepository defines storage operations for accounts
type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
}

// ShowRepository defines storage operations for shows
type ShowRepository interface {
	ListShows(ctx context.Context) ([]domain.Show, error)
	ListShowsFrom(ctx context.Context, from domain.Date) ([]domain.Show, error)
	GetShow(ctx context.Context, id int64) (*domain.Show, error)
	CreateShow(ctx context.Context, show *domain.Show) error
	UpdateShow(ctx context.Context, show *domain.Show) error
	DeleteShow(ctx context.Context, id int64) error
}

// ReleaseRepository defines storage operations for releases. Reads run on
// the pool; multi-row writes go through WithinTx.
type ReleaseRepository interface {
	ListReleases(ctx context.Context) ([]domain.Release, error)
	GetReleaseByID(ctx context.Context, id int64) (*domain.Release, error)
	GetReleaseBySlug(ctx context.Context, slug string) (*domain.Release, error)
	GetReleaseByTitle(ctx context.Context, title string) (*domain.Release, error)
	ListReleaseLinks(ctx context.Context, releaseID int64) ([]domain.Link, error)
	DeleteRelease(ctx context.Context, id int64) error
	Dump(ctx context.Context) ([]domain.ReleaseDetail, error) // For migration

	// WithinTx runs fn inside one transaction. fn's error rolls back every
	// write made through tx; a nil return commits.
	WithinTx(ctx context.Context, fn func(tx ReleaseTx) error) error
}

// ReleaseTx is the set of writes available inside a release transaction.
type ReleaseTx interface {
	InsertRelease(ctx context.Context, release *domain.Release) error
	UpdateRelease(ctx context.Context, release *domain.Release) error
	DeleteLinks(ctx context.Context, releaseID int64) error
	InsertLink(ctx context.Context, link *domain.Link) error
}

// ReleaseWriteObserver is told the outcome of every release write.
type ReleaseWriteObserver interface {
	ObserveReleaseWrite(op string, err error)
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReleaseInput is the caller-supplied payload of a release write. A nil
// Links leaves an existing link set untouched; an empty one clears it.
type ReleaseInput struct {
	Title         string
	URLTitle      string
	SoundCloudURL string
	Collaborators *string
	ReleaseDate   string
	Links         []LinkInput
}

type LinkInput struct {
	Platform string
	URL      string
}

type ShowInput struct {
	Venue         string
	City          string
	StateProvince string
	Country       string
	TicketLink    *string
	ShowDate      string
}

// AuthService defines credential checks and token handling
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// ReleaseService defines the business logic for releases
type ReleaseService interface {
	ListReleases(ctx context.Context) ([]domain.Release, error)
	GetRelease(ctx context.Context, slug string) (*domain.ReleaseDetail, error)
	CreateRelease(ctx context.Context, in ReleaseInput) (*domain.ReleaseDetail, error)
	UpdateRelease(ctx context.Context, slug string, in ReleaseInput) (*domain.ReleaseDetail, error)
	DeleteRelease(ctx context.Context, id int64) error
}

// ShowService defines the business logic for shows
type ShowService interface {
	ListShows(ctx context.Context) ([]domain.Show, error)
	UpcomingShows(ctx context.Context) (*domain.UpcomingShows, error)
	GetShow(ctx context.Context, id int64) (*domain.Show, error)
	CreateShow(ctx context.Context, in ShowInput) (*domain.Show, error)
	UpdateShow(ctx context.Context, id int64, in ShowInput) (*domain.Show, error)
	DeleteShow(ctx context.Context, id int64) error
}
