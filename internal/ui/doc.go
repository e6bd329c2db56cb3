// Package ui contains the Fyne desktop front-end. RootUI turns the form
// input into pipeline jobs, renders their progress and shows the
// resulting transcript; settings and history live in their own dialogs.
// All UI strings are localized via Localization.
package ui
