package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-transcriber/internal/history"
	"github.com/ytget/yt-transcriber/internal/platform"
)

// HistoryDialog lists recorded transcriptions and lets the user reopen them
type HistoryDialog struct {
	store        HistoryStore
	localization *Localization
	window       fyne.Window
	onLoad       func(text, path string)

	entries  []history.Entry
	selected int

	dialog     *dialog.CustomDialog
	list       *widget.List
	detail     *widget.Label
	preview    *widget.Entry
	loadBtn    *widget.Button
	openBtn    *widget.Button
	revealBtn  *widget.Button
	emptyLabel *widget.Label
}

// NewHistoryDialog creates the dialog; onLoad receives the transcript chosen with Load
func NewHistoryDialog(store HistoryStore, localization *Localization, window fyne.Window, onLoad func(text, path string)) *HistoryDialog {
	hd := &HistoryDialog{
		store:        store,
		localization: localization,
		window:       window,
		onLoad:       onLoad,
		selected:     -1,
	}
	hd.createUI()
	return hd
}

// Show reloads entries and displays the dialog
func (hd *HistoryDialog) Show() {
	if err := hd.reload(); err != nil {
		dialog.ShowError(err, hd.window)
		return
	}
	hd.dialog.Show()
}

func (hd *HistoryDialog) reload() error {
	entries, err := hd.store.List(history.DefaultListLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	hd.entries = entries
	hd.selected = -1
	hd.list.UnselectAll()
	hd.list.Refresh()
	hd.showEntry(-1)
	if len(entries) == 0 {
		hd.emptyLabel.Show()
	} else {
		hd.emptyLabel.Hide()
	}
	return nil
}

func (hd *HistoryDialog) createUI() {
	l := hd.localization

	hd.list = widget.NewList(
		func() int { return len(hd.entries) },
		func() fyne.CanvasObject {
			title := widget.NewLabel("")
			title.Truncation = fyne.TextTruncateEllipsis
			meta := widget.NewLabel("")
			meta.SizeName = theme.SizeNameCaptionText
			return container.NewVBox(title, meta)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(hd.entries) {
				return
			}
			entry := hd.entries[id]
			box := obj.(*fyne.Container)
			box.Objects[0].(*widget.Label).SetText(entryTitle(entry))
			box.Objects[1].(*widget.Label).SetText(entryMeta(entry))
		},
	)
	hd.list.OnSelected = func(id widget.ListItemID) {
		hd.showEntry(id)
	}

	hd.emptyLabel = widget.NewLabel(l.GetText(KeyNoHistory))
	hd.emptyLabel.Alignment = fyne.TextAlignCenter

	hd.detail = widget.NewLabel("")
	hd.detail.Wrapping = fyne.TextWrapWord

	hd.preview = widget.NewMultiLineEntry()
	hd.preview.TextStyle = fyne.TextStyle{Monospace: true}
	hd.preview.Wrapping = fyne.TextWrapWord
	hd.preview.Disable()

	hd.loadBtn = widget.NewButton(l.GetText(KeyLoad), hd.onLoadClick)
	hd.openBtn = widget.NewButton(l.GetText(KeyOpen), func() {
		hd.withOutputPath(platform.OpenFileWithDefaultApp)
	})
	hd.revealBtn = widget.NewButton(l.GetText(KeyReveal), func() {
		hd.withOutputPath(platform.OpenFileInManager)
	})

	buttons := container.NewHBox(layout.NewSpacer(), hd.revealBtn, hd.openBtn, hd.loadBtn)
	right := container.NewBorder(hd.detail, buttons, nil, nil, hd.preview)
	left := container.NewStack(hd.list, container.NewCenter(hd.emptyLabel))

	split := container.NewHSplit(left, right)
	split.Offset = 0.4

	hd.dialog = dialog.NewCustom(l.GetText(KeyHistory), l.GetText(KeyClose), split, hd.window)
	hd.dialog.Resize(fyne.NewSize(HistoryDialogWidth, HistoryDialogHeight))
}

// showEntry fills the detail pane; id < 0 clears it
func (hd *HistoryDialog) showEntry(id int) {
	hd.selected = id
	if id < 0 || id >= len(hd.entries) {
		hd.detail.SetText("")
		hd.preview.SetText("")
		hd.loadBtn.Disable()
		hd.openBtn.Disable()
		hd.revealBtn.Disable()
		return
	}

	entry := hd.entries[id]
	lines := []string{entryTitle(entry), entry.URL, entryMeta(entry)}
	if entry.OutputPath != "" {
		lines = append(lines, IconFile+" "+entry.OutputPath)
	}
	if entry.HasError {
		lines = append(lines, IconError+" "+entry.ErrorMessage)
	}
	hd.detail.SetText(strings.Join(lines, "\n"))
	hd.preview.SetText(entry.Transcription)

	if entry.Transcription != "" {
		hd.loadBtn.Enable()
	} else {
		hd.loadBtn.Disable()
	}
	if entry.OutputPath != "" {
		hd.openBtn.Enable()
		hd.revealBtn.Enable()
	} else {
		hd.openBtn.Disable()
		hd.revealBtn.Disable()
	}
}

func (hd *HistoryDialog) onLoadClick() {
	if hd.selected < 0 || hd.selected >= len(hd.entries) {
		return
	}
	entry := hd.entries[hd.selected]
	if hd.onLoad != nil {
		hd.onLoad(entry.Transcription, entry.OutputPath)
	}
	hd.dialog.Hide()
}

func (hd *HistoryDialog) withOutputPath(action func(string) error) {
	if hd.selected < 0 || hd.selected >= len(hd.entries) {
		return
	}
	if err := action(hd.entries[hd.selected].OutputPath); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", hd.localization.GetText(KeyErrorOpeningFile), err), hd.window)
	}
}

func entryTitle(entry history.Entry) string {
	if entry.Title != "" {
		return entry.Title
	}
	return entry.URL
}

func entryMeta(entry history.Entry) string {
	parts := []string{entry.LastConversionTime.Local().Format(HistoryTimeLayout), entry.Engine + "/" + entry.Model}
	if entry.Language != "" {
		parts = append(parts, entry.Language)
	}
	if entry.HasError {
		parts = append(parts, IconError)
	} else {
		parts = append(parts, IconCheck)
	}
	return strings.Join(parts, MiddleDotSeparator)
}
