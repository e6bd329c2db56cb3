package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-transcriber/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// Default values
const (
	DefaultPlaylistName = "Unknown Playlist"
	PlaylistSuffix      = " Playlist"
	MaxTitleLength      = 50
	TitleTruncateSuffix = "..."
)

// PlaylistItem is the minimal per-video data needed to expand a playlist
type PlaylistItem struct {
	VideoID string
	Title   string
}

// playlistFetcher abstracts the library call for testability
type playlistFetcher func(ctx context.Context, playlistID string) ([]PlaylistItem, error)

// PlaylistParser expands YouTube playlists into video URLs using the ytdlp library
type PlaylistParser struct {
	timeout time.Duration
	fetch   playlistFetcher
}

// NewPlaylistParser creates a parser backed by github.com/ytget/ytdlp/v2
func NewPlaylistParser() *PlaylistParser {
	return &PlaylistParser{
		timeout: DefaultParseTimeout,
		fetch:   fetchPlaylistItems,
	}
}

// ParsePlaylist fetches all items of a playlist URL
func (p *PlaylistParser) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := p.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(url)
	playlist.ID = playlistID
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		playlist.AddVideo(&model.PlaylistVideo{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   VideoURL(it.VideoID),
		})
	}
	playlist.Title = playlistTitle(playlist.Videos)

	return playlist, nil
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	out := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		out = append(out, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// playlistTitle derives a display title from the first video
func playlistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistName
	}
	title := strings.TrimSpace(videos[0].Title)
	if title == "" {
		return DefaultPlaylistName
	}
	if runes := []rune(title); len(runes) > MaxTitleLength {
		title = string(runes[:MaxTitleLength]) + TitleTruncateSuffix
	}
	return title + PlaylistSuffix
}
