package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconHistory  = "🕘"
	IconFile     = "📄"
	IconError    = "❌"
	IconCheck    = "✔"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	HistoryTimeLayout  = "2006-01-02 15:04"
)

// Window and dialog sizing
const (
	WindowWidth  float32 = 800
	WindowHeight float32 = 600

	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 480

	HistoryDialogWidth  float32 = 720
	HistoryDialogHeight float32 = 480
)

// Timeouts
const (
	PlaylistExpandTimeout = 2 * time.Minute
)
