package platform

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPlaylistParser_ParsePlaylist(t *testing.T) {
	p := NewPlaylistParser()
	var gotID string
	p.fetch = func(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
		gotID = playlistID
		return []PlaylistItem{
			{VideoID: "a1", Title: "Lecture 1"},
			{VideoID: "", Title: "deleted video"},
			{VideoID: "b2", Title: "Lecture 2"},
			{VideoID: "a1", Title: "Lecture 1 again"},
		}, nil
	}

	pl, err := p.ParsePlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLxyz")
	if err != nil {
		t.Fatalf("ParsePlaylist: %v", err)
	}
	if gotID != "PLxyz" || pl.ID != "PLxyz" {
		t.Errorf("playlist id = %q / %q", gotID, pl.ID)
	}
	if len(pl.Videos) != 2 {
		t.Fatalf("videos = %d, want 2", len(pl.Videos))
	}
	if pl.Videos[1].URL != "https://www.youtube.com/watch?v=b2" {
		t.Errorf("video URL = %s", pl.Videos[1].URL)
	}
	if pl.Title != "Lecture 1"+PlaylistSuffix {
		t.Errorf("title = %q", pl.Title)
	}
}

func TestPlaylistParser_Errors(t *testing.T) {
	p := NewPlaylistParser()
	p.fetch = func(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
		return nil, errors.New("boom")
	}

	if _, err := p.ParsePlaylist(context.Background(), "https://www.youtube.com/watch?v=abc"); err == nil {
		t.Error("expected error for URL without list parameter")
	}

	_, err := p.ParsePlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestPlaylistTitle(t *testing.T) {
	if playlistTitle(nil) != DefaultPlaylistName {
		t.Error("empty playlist should use default name")
	}
}
