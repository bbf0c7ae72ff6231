package domain

import "strings"

// Platform is where a release can be streamed, bought or downloaded.
type Platform string

const (
	PlatformSpotify      Platform = "spotify"
	PlatformSoundCloud   Platform = "soundcloud"
	PlatformAppleMusic   Platform = "apple_music"
	PlatformYouTube      Platform = "youtube"
	PlatformFreeDownload Platform = "free_download"
)

// Platforms lists every accepted platform in display order.
var Platforms = []Platform{
	PlatformSpotify,
	PlatformSoundCloud,
	PlatformAppleMusic,
	PlatformYouTube,
	PlatformFreeDownload,
}

func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// PlatformList renders Platforms as "a, b, c" for error messages.
func PlatformList() string {
	names := make([]string, len(Platforms))
	for i, p := range Platforms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// Release is a published work.
type Release struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	URLTitle      string  `json:"url_title"`
	SoundCloudURL string  `json:"soundcloud_url"`
	Collaborators *string `json:"collaborators"`
	ReleaseDate   Date    `json:"release_date"`
}

// ReleaseDetail is a Release joined with its current links.
type ReleaseDetail struct {
	Release
	Links []Link `json:"links"`
}

// Link is an external listening or purchase link owned by a Release.
type Link struct {
	ID        int64    `json:"id"`
	ReleaseID int64    `json:"release_id"`
	Platform  Platform `json:"platform"`
	URL       string   `json:"url"`
}
