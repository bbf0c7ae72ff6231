package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

const (
	maxTitleLen  = 200
	maxURLLen    = 500
	maxVenueLen  = 200
	maxRegionLen = 100
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

// optional collapses an empty value to NULL.
func optional(s *string) *string {
	if s == nil || blank(*s) {
		return nil
	}
	return s
}

func validateRelease(in ports.ReleaseInput) (*domain.Release, error) {
	if blank(in.Title) {
		return nil, domain.NewValidationError("Title is required and must be a non-empty string")
	}
	if blank(in.URLTitle) {
		return nil, domain.NewValidationError("URL title is required and must be a non-empty string")
	}
	if !strings.Contains(in.SoundCloudURL, "soundcloud.com") {
		return nil, domain.NewValidationError("SoundCloud URL is required and must be a valid SoundCloud URL")
	}
	date, err := domain.ParseDate(in.ReleaseDate)
	if err != nil {
		return nil, domain.NewValidationError("Release date is required and must be a valid date")
	}
	if tooLong(in.Title, maxTitleLen) {
		return nil, domain.NewValidationError("Title must be 200 characters or less")
	}
	if tooLong(in.URLTitle, maxTitleLen) {
		return nil, domain.NewValidationError("URL title must be 200 characters or less")
	}
	if tooLong(in.SoundCloudURL, maxURLLen) {
		return nil, domain.NewValidationError("SoundCloud URL must be 500 characters or less")
	}
	if !slugPattern.MatchString(in.URLTitle) {
		return nil, domain.NewValidationError("URL title must contain only lowercase letters, numbers, and hyphens")
	}

	return &domain.Release{
		Title:         in.Title,
		URLTitle:      in.URLTitle,
		SoundCloudURL: in.SoundCloudURL,
		Collaborators: optional(in.Collaborators),
		ReleaseDate:   date,
	}, nil
}

// validateLink runs inside the release transaction; a failure rolls back the
// release row as well.
func validateLink(releaseID int64, in ports.LinkInput) (*domain.Link, error) {
	if in.Platform == "" || in.URL == "" {
		return nil, domain.NewValidationError("Each link must have both platform and url properties")
	}
	platform := domain.Platform(in.Platform)
	if !platform.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("Invalid platform: %s. Must be one of: %s", in.Platform, domain.PlatformList()))
	}
	if blank(in.URL) {
		return nil, domain.NewValidationError("Link URL must be a non-empty string")
	}
	if tooLong(in.URL, maxURLLen) {
		return nil, domain.NewValidationError("Link URL must be 500 characters or less")
	}
	return &domain.Link{ReleaseID: releaseID, Platform: platform, URL: in.URL}, nil
}

func validateShow(in ports.ShowInput) (*domain.Show, error) {
	required := []struct {
		value, name string
	}{
		{in.Venue, "Venue"},
		{in.City, "City"},
		{in.StateProvince, "State/province"},
		{in.Country, "Country"},
	}
	for _, f := range required {
		if blank(f.value) {
			return nil, domain.NewValidationError(f.name + " is required and must be a non-empty string")
		}
	}

	date, err := domain.ParseDate(in.ShowDate)
	if err != nil {
		return nil, domain.NewValidationError("Show date is required and must be a valid date")
	}

	switch {
	case tooLong(in.Venue, maxVenueLen):
		return nil, domain.NewValidationError("Venue must be 200 characters or less")
	case tooLong(in.City, maxRegionLen):
		return nil, domain.NewValidationError("City must be 100 characters or less")
	case tooLong(in.StateProvince, maxRegionLen):
		return nil, domain.NewValidationError("State/province must be 100 characters or less")
	case tooLong(in.Country, maxRegionLen):
		return nil, domain.NewValidationError("Country must be 100 characters or less")
	case in.TicketLink != nil && tooLong(*in.TicketLink, maxURLLen):
		return nil, domain.NewValidationError("Ticket link must be 500 characters or less")
	}

	return &domain.Show{
		Venue:         strings.TrimSpace(in.Venue),
		City:          strings.TrimSpace(in.City),
		StateProvince: strings.TrimSpace(in.StateProvince),
		Country:       strings.TrimSpace(in.Country),
		TicketLink:    optional(in.TicketLink),
		ShowDate:      date,
	}, nil
}
