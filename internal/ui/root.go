package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/config"
	"github.com/ytget/yt-transcriber/internal/history"
	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/model"
	"github.com/ytget/yt-transcriber/internal/pipeline"
	"github.com/ytget/yt-transcriber/internal/platform"
)

// HistoryStore lists recorded transcriptions for the history dialog
type HistoryStore interface {
	List(limit int) ([]history.Entry, error)
}

// DependencyChecker reports missing external tools at startup
type DependencyChecker interface {
	Check(whisperBinary string) platform.DependencyReport
}

// Dependencies groups everything RootUI needs besides the window and app
type Dependencies struct {
	Runner   pipeline.Runner
	Settings *config.Settings
	History  HistoryStore
	Checker  DependencyChecker
	Logger   *zap.Logger

	// OnSettingsChanged lets the caller reconfigure engines after the settings dialog saves.
	OnSettingsChanged func()
}

// engineLabels maps engines to the names shown in the engine select
var engineLabels = map[model.Engine]string{
	model.EngineWhisperCPP: "whisper.cpp (local)",
	model.EngineOpenAI:     "OpenAI Whisper API",
}

// RootUI represents the main window
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	runner       pipeline.Runner
	settings     *config.Settings
	history      HistoryStore
	checker      DependencyChecker
	localization *Localization
	logger       *zap.Logger
	onSettings   func()

	// Input group
	videoCard       *widget.Card
	urlLabel        *widget.Label
	modelLabel      *widget.Label
	engineLabel     *widget.Label
	outputDirLabel  *widget.Label
	optionsLabel    *widget.Label
	urlEntry        *widget.Entry
	modelSelect     *widget.Select
	engineSelect    *widget.Select
	outputDirEntry  *widget.Entry
	browseBtn       *widget.Button
	timestampsCheck *widget.Check
	transcribeBtn   *widget.Button
	stopBtn         *widget.Button

	// Progress group
	progressCard *widget.Card
	progressBar  *widget.ProgressBar
	statusLabel  *widget.Label

	// Output group
	outputCard *widget.Card
	outputText *widget.Entry
	copyBtn    *widget.Button
	saveAsBtn  *widget.Button

	// Batch state, touched on the UI thread only
	busy          bool
	expanding     bool
	batchOutDir   string
	finished      map[string]*model.Job
	outputJobID   string
	outputPath    string
	lastErrorText string
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, deps Dependencies) *RootUI {
	settings := deps.Settings
	if settings == nil {
		settings = config.NewSettings(app)
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetAppLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		runner:       deps.Runner,
		settings:     settings,
		history:      deps.History,
		checker:      deps.Checker,
		localization: localization,
		logger:       logging.OrNop(deps.Logger),
		onSettings:   deps.OnSettingsChanged,
		finished:     make(map[string]*model.Job),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.runner.SetUpdateCallback(ui.onJobUpdate)
	ui.setupUI()
	window.SetCloseIntercept(ui.onCloseRequest)
	return ui
}

// RunStartupChecks looks for missing tools in the background and reports them in a dialog
func (ui *RootUI) RunStartupChecks() {
	if ui.checker == nil {
		return
	}
	whisperBinary := ""
	if ui.settings.GetEngine() == model.EngineWhisperCPP {
		whisperBinary = ui.settings.GetWhisperBinary()
	}
	go func() {
		report := ui.checker.Check(whisperBinary)
		if !report.HasFailures {
			return
		}
		fyne.Do(func() {
			ui.showDependencyReport(report)
		})
	}()
}

func (ui *RootUI) showDependencyReport(report platform.DependencyReport) {
	lines := []string{ui.localization.GetText(KeyMissingToolsMessage), ""}
	for _, item := range report.Failures() {
		ui.logger.Warn("dependency missing", zap.String("tool", item.Name))
		lines = append(lines, IconError+" "+item.Message)
		if item.Hint != "" {
			lines = append(lines, "    "+item.Hint)
		}
	}
	dialog.ShowInformation(ui.localization.GetText(KeyMissingTools), strings.Join(lines, "\n"), ui.window)
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlLabel = widget.NewLabel("")
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onTranscribeClick()
	}

	ui.modelLabel = widget.NewLabel("")
	ui.modelSelect = widget.NewSelect(model.WhisperModels, nil)
	ui.modelSelect.SetSelected(ui.settings.GetWhisperModel())

	ui.engineLabel = widget.NewLabel("")
	ui.engineSelect = widget.NewSelect(engineOptionLabels(ui.settings.GetEngineOptions()), nil)
	ui.engineSelect.SetSelected(engineLabels[ui.settings.GetEngine()])

	ui.outputDirLabel = widget.NewLabel("")
	ui.outputDirEntry = widget.NewEntry()
	ui.outputDirEntry.SetText(ui.settings.GetOutputDirectory())
	ui.browseBtn = widget.NewButton("", ui.onBrowseOutputDir)
	outputDirRow := container.NewBorder(nil, nil, nil, ui.browseBtn, ui.outputDirEntry)

	ui.optionsLabel = widget.NewLabel("")
	ui.timestampsCheck = widget.NewCheck("", nil)
	ui.timestampsCheck.SetChecked(ui.settings.GetIncludeTimestamps())

	ui.transcribeBtn = widget.NewButton("", ui.onTranscribeClick)
	ui.transcribeBtn.Importance = widget.HighImportance
	ui.stopBtn = widget.NewButton("", ui.onStopClick)
	ui.stopBtn.Disable()

	form := container.New(layout.NewFormLayout(),
		ui.urlLabel, ui.urlEntry,
		ui.modelLabel, ui.modelSelect,
		ui.engineLabel, ui.engineSelect,
		ui.outputDirLabel, outputDirRow,
		ui.optionsLabel, ui.timestampsCheck,
	)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance
	historyBtn := widget.NewButton(IconHistory, ui.onShowHistory)
	historyBtn.Importance = widget.LowImportance

	actions := container.NewHBox(settingsBtn, historyBtn, layout.NewSpacer(), ui.stopBtn, ui.transcribeBtn)
	ui.videoCard = widget.NewCard("", "", container.NewVBox(form, actions))

	ui.progressBar = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel("")
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis
	ui.progressCard = widget.NewCard("", "", container.NewVBox(ui.progressBar, ui.statusLabel))

	ui.outputText = widget.NewMultiLineEntry()
	ui.outputText.TextStyle = fyne.TextStyle{Monospace: true}
	ui.outputText.Wrapping = fyne.TextWrapWord
	ui.outputText.SetMinRowsVisible(10)
	ui.outputText.Disable()

	ui.copyBtn = widget.NewButton("", ui.onCopyClick)
	ui.copyBtn.Disable()
	ui.saveAsBtn = widget.NewButton("", ui.onSaveAsClick)
	ui.saveAsBtn.Disable()
	outputButtons := container.NewHBox(layout.NewSpacer(), ui.copyBtn, ui.saveAsBtn)
	ui.outputCard = widget.NewCard("", "", container.NewBorder(nil, outputButtons, nil, nil, ui.outputText))

	ui.refreshUITexts()
	ui.statusLabel.SetText(ui.localization.GetText(KeyReady))

	content := container.NewBorder(
		container.NewVBox(ui.videoCard, ui.progressCard),
		nil,
		nil,
		nil,
		ui.outputCard,
	)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	historyItem := fyne.NewMenuItem(ui.localization.GetText(KeyHistory), ui.onShowHistory)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	available := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(available))
	for code := range available {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		langCode := code
		langItem := fyne.NewMenuItem(available[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		fyne.NewMenu(ui.localization.GetText(KeyView), historyItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetAppLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	l := ui.localization
	ui.window.SetTitle(l.GetText(KeyAppTitle))

	ui.videoCard.SetTitle(l.GetText(KeyVideoGroup))
	ui.urlLabel.SetText(l.GetText(KeyURLLabel))
	ui.urlEntry.SetPlaceHolder(l.GetText(KeyURLPlaceholder))
	ui.modelLabel.SetText(l.GetText(KeyModelLabel))
	ui.engineLabel.SetText(l.GetText(KeyEngineLabel))
	ui.outputDirLabel.SetText(l.GetText(KeyOutputDirLabel))
	ui.browseBtn.SetText(l.GetText(KeyBrowse))
	ui.optionsLabel.SetText(l.GetText(KeyOptionsLabel))
	ui.timestampsCheck.Text = l.GetText(KeyIncludeTimestamps)
	ui.timestampsCheck.Refresh()
	ui.transcribeBtn.SetText(l.GetText(KeyTranscribe))
	ui.stopBtn.SetText(l.GetText(KeyStop))

	ui.progressCard.SetTitle(l.GetText(KeyProgressGroup))

	ui.outputCard.SetTitle(l.GetText(KeyOutputGroup))
	ui.copyBtn.SetText(l.GetText(KeyCopyToClipboard))
	ui.saveAsBtn.SetText(l.GetText(KeySaveAs))
}

// onBrowseOutputDir lets the user pick the transcript directory
func (ui *RootUI) onBrowseOutputDir() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.outputDirEntry.SetText(uri.Path())
	}, ui.window)
}

// currentOptions reads job options from the form and remembers them as defaults
func (ui *RootUI) currentOptions() model.JobOptions {
	ui.settings.SetWhisperModel(ui.modelSelect.Selected)
	ui.settings.SetEngine(engineFromLabel(ui.engineSelect.Selected))
	ui.settings.SetOutputDirectory(ui.outputDirEntry.Text)
	ui.settings.SetIncludeTimestamps(ui.timestampsCheck.Checked)
	return ui.settings.JobOptions()
}

// onTranscribeClick validates the form and submits the URL
func (ui *RootUI) onTranscribeClick() {
	if ui.busy {
		return
	}

	urlText := platform.NormalizeURL(ui.urlEntry.Text)
	if urlText == "" {
		dialog.ShowInformation(ui.localization.GetText(KeyInputError), ui.localization.GetText(KeyPleaseEnterURL), ui.window)
		return
	}

	outputDir := strings.TrimSpace(ui.outputDirEntry.Text)
	if outputDir == "" {
		outputDir = ui.settings.GetOutputDirectory()
		ui.outputDirEntry.SetText(outputDir)
	}
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyCouldNotCreateDir), err), ui.window)
		return
	}

	opts := ui.currentOptions()
	ui.startBatch(opts.OutputDir)

	if platform.IsPlaylistURL(urlText) {
		ui.submitPlaylist(urlText, opts)
		return
	}

	job, err := ui.runner.Submit(urlText, opts)
	if err != nil {
		ui.failSubmit(err)
		return
	}
	ui.logger.Info("transcription requested", zap.String("job_id", job.ID), zap.String("url", job.URL))
}

// submitPlaylist expands the playlist off the UI thread
func (ui *RootUI) submitPlaylist(urlText string, opts model.JobOptions) {
	ui.expanding = true
	ui.statusLabel.SetText(ui.localization.GetText(KeyLoadingPlaylist))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PlaylistExpandTimeout)
		defer cancel()
		jobs, err := ui.runner.SubmitPlaylist(ctx, urlText, opts)

		fyne.Do(func() {
			ui.expanding = false
			if err != nil && len(jobs) == 0 {
				ui.failSubmit(err)
				return
			}
			if len(jobs) == 0 {
				ui.endBatch()
				dialog.ShowInformation(ui.localization.GetText(KeyAppTitle), ui.localization.GetText(KeyPlaylistEmpty), ui.window)
				return
			}
			ui.logger.Info("playlist queued", zap.String("url", urlText), zap.Int("jobs", len(jobs)))
			ui.checkBatchDone()
		})
	}()
}

// startBatch clears the previous result and locks the form
func (ui *RootUI) startBatch(outputDir string) {
	for id := range ui.finished {
		_ = ui.runner.Remove(id)
	}
	ui.finished = make(map[string]*model.Job)
	ui.batchOutDir = outputDir
	ui.outputJobID = ""
	ui.outputPath = ""
	ui.lastErrorText = ""

	ui.outputText.SetText("")
	ui.progressBar.SetValue(0)
	ui.statusLabel.SetText(ui.localization.GetText(KeyStarting))
	ui.setBusy(true)
}

// failSubmit reports a job that could not be queued
func (ui *RootUI) failSubmit(err error) {
	ui.endBatch()
	ui.progressBar.SetValue(0)
	ui.statusLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyErrorPrefix), err.Error()))
	if errors.Is(err, pipeline.ErrJobExists) {
		dialog.ShowInformation(ui.localization.GetText(KeyAppTitle), ui.localization.GetText(KeyAlreadyInQueue), ui.window)
		return
	}
	dialog.ShowError(err, ui.window)
}

// setBusy toggles controls for a running batch
func (ui *RootUI) setBusy(busy bool) {
	ui.busy = busy
	controls := []fyne.Disableable{ui.urlEntry, ui.modelSelect, ui.engineSelect, ui.outputDirEntry, ui.browseBtn, ui.timestampsCheck, ui.transcribeBtn}
	for _, c := range controls {
		if busy {
			c.Disable()
		} else {
			c.Enable()
		}
	}
	if busy {
		ui.stopBtn.Enable()
		ui.copyBtn.Disable()
		ui.saveAsBtn.Disable()
	} else {
		ui.stopBtn.Disable()
	}
}

func (ui *RootUI) endBatch() {
	ui.setBusy(false)
	if ui.outputText.Text != "" {
		ui.copyBtn.Enable()
		ui.saveAsBtn.Enable()
	}
}

// onStopClick stops every unfinished job of the batch
func (ui *RootUI) onStopClick() {
	ui.runner.StopAll()
}

// onJobUpdate is called by the pipeline from worker goroutines
func (ui *RootUI) onJobUpdate(job *model.Job) {
	if job == nil {
		return
	}
	fyne.Do(func() {
		ui.applyJobUpdate(job)
	})
}

// applyJobUpdate renders a job snapshot; runs on the UI thread
func (ui *RootUI) applyJobUpdate(job *model.Job) {
	if !ui.busy {
		return
	}

	switch job.Status {
	case model.JobStatusCompleted:
		ui.finished[job.ID] = job
		ui.outputJobID = job.ID
		ui.outputPath = job.OutputPath
		ui.outputText.SetText(job.Text)
		ui.progressBar.SetValue(1)
		ui.statusLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyTranscriptionSavedTo), job.OutputPath))
	case model.JobStatusError:
		ui.finished[job.ID] = job
		ui.lastErrorText = job.LastError
		ui.progressBar.SetValue(0)
		ui.statusLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeyErrorPrefix), job.LastError))
	case model.JobStatusStopped:
		ui.finished[job.ID] = job
		ui.statusLabel.SetText(ui.localization.GetText(KeyStopped))
	default:
		ui.progressBar.SetValue(job.Progress)
		if job.Message != "" {
			ui.statusLabel.SetText(job.Message)
		}
	}

	if job.Status.IsFinished() {
		ui.checkBatchDone()
	}
}

// checkBatchDone unlocks the form once no job is left and reports the outcome
func (ui *RootUI) checkBatchDone() {
	if !ui.busy || ui.expanding || ui.runner.Running() {
		return
	}
	ui.endBatch()

	completed, failed := 0, 0
	var single *model.Job
	for _, job := range ui.finished {
		single = job
		switch job.Status {
		case model.JobStatusCompleted:
			completed++
		case model.JobStatusError:
			failed++
		}
	}

	l := ui.localization
	if len(ui.finished) == 1 {
		switch single.Status {
		case model.JobStatusCompleted:
			dialog.ShowInformation(l.GetText(KeyTranscriptionDone), fmt.Sprintf(l.GetText(KeyCompleteAndSavedTo), single.OutputPath), ui.window)
			ui.sendCompletionNotification(single)
		case model.JobStatusError:
			dialog.ShowError(errors.New(single.LastError), ui.window)
		}
		return
	}

	if completed+failed == 0 {
		return
	}
	summary := fmt.Sprintf(l.GetText(KeyBatchSummary), completed, len(ui.finished), ui.batchOutDir)
	if failed > 0 && ui.lastErrorText != "" {
		summary += "\n\n" + fmt.Sprintf(l.GetText(KeyErrorPrefix), ui.lastErrorText)
	}
	dialog.ShowInformation(l.GetText(KeyTranscriptionDone), summary, ui.window)
}

// sendCompletionNotification sends a system notification for a saved transcript
func (ui *RootUI) sendCompletionNotification(job *model.Job) {
	ui.app.SendNotification(ui.completionNotification(job))
}

func (ui *RootUI) completionNotification(job *model.Job) *fyne.Notification {
	return &fyne.Notification{
		Title:   ui.localization.GetText(KeyTranscriptionDone),
		Content: fmt.Sprintf(ui.localization.GetText(KeyTranscriptionSavedTo), job.OutputPath),
	}
}

// onCopyClick copies the transcript to the clipboard
func (ui *RootUI) onCopyClick() {
	if ui.outputText.Text == "" {
		return
	}
	ui.app.Clipboard().SetContent(ui.outputText.Text)
	ui.statusLabel.SetText(ui.localization.GetText(KeyCopiedToClipboard))
}

// onSaveAsClick asks for a path and writes the transcript there
func (ui *RootUI) onSaveAsClick() {
	if ui.outputText.Text == "" {
		return
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyCouldNotSaveFile), err), ui.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		ui.saveOutputTo(path)
	}, ui.window)

	if ui.outputPath != "" {
		saveDialog.SetFileName(filepath.Base(ui.outputPath))
		if dir, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(ui.outputPath))); err == nil {
			saveDialog.SetLocation(dir)
		}
	}
	saveDialog.Show()
}

// saveOutputTo writes the displayed transcript to path
func (ui *RootUI) saveOutputTo(path string) {
	var err error
	if ui.outputJobID != "" {
		err = ui.runner.SaveAs(ui.outputJobID, path)
	} else {
		err = platform.WriteTextFile(path, ui.outputText.Text)
	}
	if err != nil {
		ui.logger.Error("save as failed", zap.String("path", path), zap.Error(err))
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyCouldNotSaveFile), err), ui.window)
		return
	}
	ui.statusLabel.SetText(fmt.Sprintf(ui.localization.GetText(KeySavedTo), path))
}

// showTranscript displays text loaded outside the pipeline, e.g. from history
func (ui *RootUI) showTranscript(text, path string) {
	if ui.busy {
		return
	}
	ui.outputJobID = ""
	ui.outputPath = path
	ui.outputText.SetText(text)
	ui.endBatch()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

// onSettingsSaved applies settings that affect running services
func (ui *RootUI) onSettingsSaved() {
	ui.runner.SetMaxParallel(ui.settings.GetMaxParallelJobs())
	if lang := ui.settings.GetAppLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.localization.SetLanguage(lang)
		ui.refreshUITexts()
		ui.createMenu()
	}
	if ui.onSettings != nil {
		ui.onSettings()
	}
}

// onShowHistory shows past transcriptions
func (ui *RootUI) onShowHistory() {
	if ui.history == nil {
		return
	}
	NewHistoryDialog(ui.history, ui.localization, ui.window, ui.showTranscript).Show()
}

// onCloseRequest asks for confirmation while a transcription is running
func (ui *RootUI) onCloseRequest() {
	if !ui.runner.Running() {
		ui.window.Close()
		return
	}
	dialog.ShowConfirm(
		ui.localization.GetText(KeyConfirmExit),
		ui.localization.GetText(KeyConfirmExitMessage),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			ui.runner.StopAll()
			ui.window.Close()
		},
		ui.window,
	)
}

func engineOptionLabels(engines []model.Engine) []string {
	labels := make([]string, 0, len(engines))
	for _, e := range engines {
		labels = append(labels, engineLabels[e])
	}
	return labels
}

func engineFromLabel(label string) model.Engine {
	for engine, l := range engineLabels {
		if l == label {
			return engine
		}
	}
	return model.DefaultEngine
}
