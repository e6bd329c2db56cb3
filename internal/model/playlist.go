package model

import (
	"time"
)

// PlaylistVideo represents a single video in a playlist
type PlaylistVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Playlist represents a YouTube playlist whose videos become one job each
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Videos    []*PlaylistVideo `json:"videos"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	return &Playlist{
		URL:       url,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: time.Now(),
	}
}

// AddVideo adds a video to the playlist, skipping duplicates by ID
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	for _, v := range p.Videos {
		if v.ID == video.ID {
			return
		}
	}
	p.Videos = append(p.Videos, video)
}

// URLs returns the video URLs in playlist order
func (p *Playlist) URLs() []string {
	urls := make([]string, 0, len(p.Videos))
	for _, v := range p.Videos {
		urls = append(urls, v.URL)
	}
	return urls
}
