package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-transcriber/internal/config"
	"github.com/ytget/yt-transcriber/internal/model"
)

// TranscriptLanguages are the language hints offered in the settings dialog; any code may be typed
var TranscriptLanguages = []string{model.AutoLanguage, "en", "ru", "pt", "es", "de", "fr", "it", "uk", "ja", "zh"}

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	languageEntry      *widget.SelectEntry
	whisperBinaryEntry *widget.Entry
	modelsDirEntry     *widget.Entry
	apiKeyEntry        *widget.Entry
	maxParallelEntry   *widget.Entry
	appLanguageSelect  *widget.Select

	appLanguageCodes map[string]string // display name -> code
}

// NewSettingsDialog creates a new settings dialog; onSaved runs after the values are stored
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	l := sd.localization

	sd.languageEntry = widget.NewSelectEntry(TranscriptLanguages)

	sd.whisperBinaryEntry = widget.NewEntry()
	sd.whisperBinaryEntry.SetPlaceHolder("whisper-cli")
	browseBinaryBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseBinary)
	binaryRow := container.NewBorder(nil, nil, nil, browseBinaryBtn, sd.whisperBinaryEntry)

	sd.modelsDirEntry = widget.NewEntry()
	browseModelsBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseModelsDir)
	modelsRow := container.NewBorder(nil, nil, nil, browseModelsBtn, sd.modelsDirEntry)

	sd.apiKeyEntry = widget.NewPasswordEntry()
	sd.apiKeyEntry.SetPlaceHolder("sk-...")

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxParallelLimit))

	sd.appLanguageCodes = make(map[string]string)
	names := make([]string, 0)
	for code, name := range sd.settings.GetAppLanguageOptions() {
		sd.appLanguageCodes[name] = code
		names = append(names, name)
	}
	sort.Strings(names)
	sd.appLanguageSelect = widget.NewSelect(names, nil)

	transcription := container.New(layout.NewFormLayout(),
		widget.NewLabel(l.GetText(KeyTranscriptLanguage)), sd.languageEntry,
		widget.NewLabel(l.GetText(KeyWhisperBinary)), binaryRow,
		widget.NewLabel(l.GetText(KeyModelsDirectory)), modelsRow,
		widget.NewLabel(l.GetText(KeyOpenAIKey)), sd.apiKeyEntry,
		widget.NewLabel(l.GetText(KeyMaxParallel)), sd.maxParallelEntry,
	)
	iface := container.New(layout.NewFormLayout(),
		widget.NewLabel(l.GetText(KeyAppLanguage)), sd.appLanguageSelect,
	)

	form := container.NewVBox(
		widget.NewLabelWithStyle(l.GetText(KeyTranscriptionGroup), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		transcription,
		widget.NewSeparator(),
		widget.NewLabelWithStyle(l.GetText(KeyInterfaceGroup), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		iface,
	)

	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.languageEntry.SetText(sd.settings.GetLanguage())
	sd.whisperBinaryEntry.SetText(sd.settings.GetWhisperBinary())
	sd.modelsDirEntry.SetText(sd.settings.GetModelsDirectory())
	sd.apiKeyEntry.SetText(sd.settings.GetOpenAIAPIKey())
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelJobs()))
	sd.appLanguageSelect.SetSelected(sd.settings.GetAppLanguageOptions()[sd.settings.GetAppLanguage()])
}

func (sd *SettingsDialog) onBrowseBinary() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		sd.whisperBinaryEntry.SetText(reader.URI().Path())
	}, sd.window)
}

func (sd *SettingsDialog) onBrowseModelsDir() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.modelsDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply stores the dialog values; empty fields keep their defaults
func (sd *SettingsDialog) apply() {
	sd.settings.SetLanguage(sd.languageEntry.Text)
	sd.settings.SetWhisperBinary(sd.whisperBinaryEntry.Text)
	if sd.modelsDirEntry.Text != "" {
		sd.settings.SetModelsDirectory(sd.modelsDirEntry.Text)
	}
	sd.settings.SetOpenAIAPIKey(sd.apiKeyEntry.Text)

	if maxParallel, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelJobs(maxParallel)
	}

	if code, ok := sd.appLanguageCodes[sd.appLanguageSelect.Selected]; ok {
		sd.settings.SetAppLanguage(code)
	}
}
