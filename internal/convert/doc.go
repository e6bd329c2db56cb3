// Package convert implements the conversion stage: it turns downloaded audio
// into the 16 kHz mono WAV the speech models expect and splits long recordings
// into chunks using ffmpeg and ffprobe.
package convert
