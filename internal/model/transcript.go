package model

import (
	"fmt"
	"strings"
)

// Segment is one timed span of recognized speech
type Segment struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Transcript is the output of the transcription stage
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Shift moves every segment by offset seconds
func (t *Transcript) Shift(offset float64) {
	if offset == 0 {
		return
	}
	for i := range t.Segments {
		t.Segments[i].Start += offset
		t.Segments[i].End += offset
	}
}

// FormatTimestamp converts seconds to HH:MM:SS, truncating fractions
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatWithTimestamps renders one "[start --> end] text" line per segment
func FormatWithTimestamps(t *Transcript) string {
	if t == nil {
		return ""
	}

	var b strings.Builder
	for _, seg := range t.Segments {
		fmt.Fprintf(&b, "[%s --> %s] %s\n", FormatTimestamp(seg.Start), FormatTimestamp(seg.End), seg.Text)
	}
	return b.String()
}
