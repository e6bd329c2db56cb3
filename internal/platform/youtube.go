package platform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URL errors
var (
	ErrEmptyURL      = errors.New("empty URL")
	ErrNotYouTubeURL = errors.New("not a YouTube URL")
)

// Accepted URL prefixes; scheme-less forms are what users commonly paste
var YouTubeURLPrefixes = []string{
	"https://www.youtube.com/",
	"https://youtube.com/",
	"https://m.youtube.com/",
	"https://music.youtube.com/",
	"https://youtu.be/",
	"http://www.youtube.com/",
	"http://youtube.com/",
	"http://youtu.be/",
	"www.youtube.com/",
	"youtube.com/",
	"youtu.be/",
}

// URL parameters and templates
const (
	VideoParam              = "v"
	PlaylistParam           = "list"
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
	ShortHost               = "youtu.be"
)

// Path prefixes that carry the video ID as the next path segment
var videoPathPrefixes = []string{"/shorts/", "/embed/", "/live/", "/v/"}

// NormalizeURL removes control characters that sneak in through copy/paste
func NormalizeURL(raw string) string {
	clean := strings.ReplaceAll(raw, "\n", "")
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.ReplaceAll(clean, "\t", " ")
	return strings.TrimSpace(clean)
}

// ValidateYouTubeURL performs the superficial prefix check done before any network call
func ValidateYouTubeURL(raw string) error {
	u := NormalizeURL(raw)
	if u == "" {
		return ErrEmptyURL
	}
	lower := strings.ToLower(u)
	for _, prefix := range YouTubeURLPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotYouTubeURL, u)
}

// parseLoose parses a URL, adding a scheme when the user omitted it
func parseLoose(raw string) (*url.URL, error) {
	u := NormalizeURL(raw)
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return url.Parse(u)
}

// ExtractVideoID returns the video ID from watch, short, shorts and embed URLs
func ExtractVideoID(raw string) string {
	u, err := parseLoose(raw)
	if err != nil {
		return ""
	}

	if id := u.Query().Get(VideoParam); id != "" {
		return id
	}

	if strings.EqualFold(u.Hostname(), ShortHost) {
		return firstPathSegment(u.Path)
	}

	for _, prefix := range videoPathPrefixes {
		if strings.HasPrefix(u.Path, prefix) {
			return firstPathSegment(strings.TrimPrefix(u.Path, prefix))
		}
	}
	return ""
}

func firstPathSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if idx := strings.Index(p, "/"); idx >= 0 {
		p = p[:idx]
	}
	return p
}

// IsPlaylistURL reports whether the URL names a playlist without a specific video
func IsPlaylistURL(raw string) bool {
	return ExtractPlaylistID(raw) != "" && ExtractVideoID(raw) == ""
}

// ExtractPlaylistID returns the list= parameter, if any
func ExtractPlaylistID(raw string) string {
	u, err := parseLoose(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get(PlaylistParam)
}

// VideoURL builds a canonical watch URL for a video ID
func VideoURL(videoID string) string {
	return fmt.Sprintf(YouTubeVideoURLTemplate, videoID)
}
