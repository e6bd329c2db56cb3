package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, YouTube URL handling, dependency checks, playlist expansion
// via yt-dlp, and OS open/reveal.
