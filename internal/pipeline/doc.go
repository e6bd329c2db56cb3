// Package pipeline runs transcription jobs end to end: it validates the URL,
// downloads and converts the audio, transcribes it, saves the transcript and
// records the outcome. It owns the job lifecycle, concurrency limits and
// progress propagation to the UI and CLI.
package pipeline
