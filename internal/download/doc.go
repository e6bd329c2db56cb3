// Package download implements the download stage of the transcription
// pipeline on top of yt-dlp (via github.com/lrstanley/go-ytdlp). It validates
// URLs, reads video metadata and extracts the audio track into a work
// directory while reporting progress.
package download
