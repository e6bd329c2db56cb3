package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle             = "app_title"
	KeyFile                 = "file"
	KeyView                 = "view"
	KeyLanguage             = "language"
	KeySettings             = "settings"
	KeyHistory              = "history"
	KeyQuit                 = "quit"
	KeyVideoGroup           = "video_group"
	KeyURLLabel             = "url_label"
	KeyURLPlaceholder       = "url_placeholder"
	KeyModelLabel           = "model_label"
	KeyEngineLabel          = "engine_label"
	KeyOutputDirLabel       = "output_dir_label"
	KeyOptionsLabel         = "options_label"
	KeyIncludeTimestamps    = "include_timestamps"
	KeyBrowse               = "browse"
	KeyTranscribe           = "transcribe"
	KeyStop                 = "stop"
	KeyProgressGroup        = "progress_group"
	KeyReady                = "ready"
	KeyStarting             = "starting"
	KeyLoadingPlaylist      = "loading_playlist"
	KeyOutputGroup          = "output_group"
	KeyCopyToClipboard      = "copy_to_clipboard"
	KeySaveAs               = "save_as"
	KeyCopiedToClipboard    = "copied_to_clipboard"
	KeySavedTo              = "saved_to"
	KeyCouldNotSaveFile     = "could_not_save_file"
	KeyInputError           = "input_error"
	KeyPleaseEnterURL       = "please_enter_url"
	KeyCouldNotCreateDir    = "could_not_create_dir"
	KeyAlreadyInQueue       = "already_in_queue"
	KeyPlaylistEmpty        = "playlist_empty"
	KeyTranscriptionDone    = "transcription_done"
	KeyTranscriptionSavedTo = "transcription_saved_to"
	KeyCompleteAndSavedTo   = "complete_and_saved_to"
	KeyBatchSummary         = "batch_summary"
	KeyErrorPrefix          = "error_prefix"
	KeyStopped              = "stopped"
	KeyConfirmExit          = "confirm_exit"
	KeyConfirmExitMessage   = "confirm_exit_message"
	KeyMissingTools         = "missing_tools"
	KeyMissingToolsMessage  = "missing_tools_message"
	KeySave                 = "save"
	KeyCancel               = "cancel"
	KeyClose                = "close"
	KeyOpen                 = "open"
	KeyReveal               = "reveal"
	KeyLoad                 = "load"
	KeySettingsSaved        = "settings_saved"
	KeyNoHistory            = "no_history"
	KeyTranscriptLanguage   = "transcript_language"
	KeyAppLanguage          = "app_language"
	KeyWhisperBinary        = "whisper_binary"
	KeyModelsDirectory      = "models_directory"
	KeyOpenAIKey            = "openai_key"
	KeyMaxParallel          = "max_parallel"
	KeyTranscriptionGroup   = "transcription_group"
	KeyInterfaceGroup       = "interface_group"
	KeyErrorOpeningFile     = "error_opening_file"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:             "YouTube Transcription App",
		KeyFile:                 "File",
		KeyView:                 "View",
		KeyLanguage:             "Language",
		KeySettings:             "Settings",
		KeyHistory:              "History",
		KeyQuit:                 "Quit",
		KeyVideoGroup:           "YouTube Video",
		KeyURLLabel:             "YouTube URL:",
		KeyURLPlaceholder:       "https://www.youtube.com/watch?v=...",
		KeyModelLabel:           "Whisper Model:",
		KeyEngineLabel:          "Engine:",
		KeyOutputDirLabel:       "Output Directory:",
		KeyOptionsLabel:         "Options:",
		KeyIncludeTimestamps:    "Include timestamps",
		KeyBrowse:               "Browse...",
		KeyTranscribe:           "Transcribe",
		KeyStop:                 "Stop",
		KeyProgressGroup:        "Progress",
		KeyReady:                "Ready",
		KeyStarting:             "Starting...",
		KeyLoadingPlaylist:      "Loading playlist...",
		KeyOutputGroup:          "Transcription Output",
		KeyCopyToClipboard:      "Copy to Clipboard",
		KeySaveAs:               "Save As...",
		KeyCopiedToClipboard:    "Copied to clipboard",
		KeySavedTo:              "Saved to: %s",
		KeyCouldNotSaveFile:     "Could not save file",
		KeyInputError:           "Input Error",
		KeyPleaseEnterURL:       "Please enter a YouTube URL",
		KeyCouldNotCreateDir:    "Could not create output directory",
		KeyAlreadyInQueue:       "This video is already being transcribed",
		KeyPlaylistEmpty:        "The playlist has no videos to transcribe",
		KeyTranscriptionDone:    "Transcription Complete",
		KeyTranscriptionSavedTo: "Transcription saved to: %s",
		KeyCompleteAndSavedTo:   "Transcription complete and saved to:\n%s",
		KeyBatchSummary:         "%d of %d transcripts saved to:\n%s",
		KeyErrorPrefix:          "Error: %s",
		KeyStopped:              "Stopped",
		KeyConfirmExit:          "Confirm Exit",
		KeyConfirmExitMessage:   "A transcription is in progress. Are you sure you want to exit?",
		KeyMissingTools:         "Missing Tools",
		KeyMissingToolsMessage:  "Some required tools were not found:",
		KeySave:                 "Save",
		KeyCancel:               "Cancel",
		KeyClose:                "Close",
		KeyOpen:                 "Open",
		KeyReveal:               "Reveal",
		KeyLoad:                 "Load",
		KeySettingsSaved:        "Settings saved successfully!",
		KeyNoHistory:            "No transcriptions yet",
		KeyTranscriptLanguage:   "Transcript Language:",
		KeyAppLanguage:          "Interface Language:",
		KeyWhisperBinary:        "whisper.cpp Binary:",
		KeyModelsDirectory:      "Models Directory:",
		KeyOpenAIKey:            "OpenAI API Key:",
		KeyMaxParallel:          "Max Parallel Jobs:",
		KeyTranscriptionGroup:   "Transcription Settings",
		KeyInterfaceGroup:       "Interface Settings",
		KeyErrorOpeningFile:     "Error opening file",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:             "Транскрипция YouTube",
		KeyFile:                 "Файл",
		KeyView:                 "Вид",
		KeyLanguage:             "Язык",
		KeySettings:             "Настройки",
		KeyHistory:              "История",
		KeyQuit:                 "Выход",
		KeyVideoGroup:           "Видео YouTube",
		KeyURLLabel:             "Ссылка YouTube:",
		KeyURLPlaceholder:       "https://www.youtube.com/watch?v=...",
		KeyModelLabel:           "Модель Whisper:",
		KeyEngineLabel:          "Движок:",
		KeyOutputDirLabel:       "Папка вывода:",
		KeyOptionsLabel:         "Параметры:",
		KeyIncludeTimestamps:    "Добавить метки времени",
		KeyBrowse:               "Обзор...",
		KeyTranscribe:           "Распознать",
		KeyStop:                 "Стоп",
		KeyProgressGroup:        "Прогресс",
		KeyReady:                "Готово к работе",
		KeyStarting:             "Запуск...",
		KeyLoadingPlaylist:      "Загрузка плейлиста...",
		KeyOutputGroup:          "Результат распознавания",
		KeyCopyToClipboard:      "Копировать",
		KeySaveAs:               "Сохранить как...",
		KeyCopiedToClipboard:    "Скопировано в буфер обмена",
		KeySavedTo:              "Сохранено: %s",
		KeyCouldNotSaveFile:     "Не удалось сохранить файл",
		KeyInputError:           "Ошибка ввода",
		KeyPleaseEnterURL:       "Введите ссылку на YouTube",
		KeyCouldNotCreateDir:    "Не удалось создать папку вывода",
		KeyAlreadyInQueue:       "Это видео уже обрабатывается",
		KeyPlaylistEmpty:        "В плейлисте нет видео для распознавания",
		KeyTranscriptionDone:    "Распознавание завершено",
		KeyTranscriptionSavedTo: "Текст сохранён: %s",
		KeyCompleteAndSavedTo:   "Распознавание завершено, текст сохранён:\n%s",
		KeyBatchSummary:         "Сохранено %d из %d текстов в:\n%s",
		KeyErrorPrefix:          "Ошибка: %s",
		KeyStopped:              "Остановлено",
		KeyConfirmExit:          "Подтверждение выхода",
		KeyConfirmExitMessage:   "Идёт распознавание. Вы уверены, что хотите выйти?",
		KeyMissingTools:         "Нет инструментов",
		KeyMissingToolsMessage:  "Не найдены необходимые инструменты:",
		KeySave:                 "Сохранить",
		KeyCancel:               "Отмена",
		KeyClose:                "Закрыть",
		KeyOpen:                 "Открыть",
		KeyReveal:               "Показать",
		KeyLoad:                 "Загрузить",
		KeySettingsSaved:        "Настройки сохранены!",
		KeyNoHistory:            "История пуста",
		KeyTranscriptLanguage:   "Язык речи:",
		KeyAppLanguage:          "Язык интерфейса:",
		KeyWhisperBinary:        "Программа whisper.cpp:",
		KeyModelsDirectory:      "Папка моделей:",
		KeyOpenAIKey:            "Ключ OpenAI API:",
		KeyMaxParallel:          "Макс. параллельных задач:",
		KeyTranscriptionGroup:   "Распознавание",
		KeyInterfaceGroup:       "Интерфейс",
		KeyErrorOpeningFile:     "Ошибка открытия файла",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:             "Transcrição do YouTube",
		KeyFile:                 "Arquivo",
		KeyView:                 "Exibir",
		KeyLanguage:             "Idioma",
		KeySettings:             "Configurações",
		KeyHistory:              "Histórico",
		KeyQuit:                 "Sair",
		KeyVideoGroup:           "Vídeo do YouTube",
		KeyURLLabel:             "URL do YouTube:",
		KeyURLPlaceholder:       "https://www.youtube.com/watch?v=...",
		KeyModelLabel:           "Modelo Whisper:",
		KeyEngineLabel:          "Mecanismo:",
		KeyOutputDirLabel:       "Pasta de saída:",
		KeyOptionsLabel:         "Opções:",
		KeyIncludeTimestamps:    "Incluir marcações de tempo",
		KeyBrowse:               "Procurar...",
		KeyTranscribe:           "Transcrever",
		KeyStop:                 "Parar",
		KeyProgressGroup:        "Progresso",
		KeyReady:                "Pronto",
		KeyStarting:             "Iniciando...",
		KeyLoadingPlaylist:      "Carregando playlist...",
		KeyOutputGroup:          "Resultado da transcrição",
		KeyCopyToClipboard:      "Copiar",
		KeySaveAs:               "Salvar como...",
		KeyCopiedToClipboard:    "Copiado para a área de transferência",
		KeySavedTo:              "Salvo em: %s",
		KeyCouldNotSaveFile:     "Não foi possível salvar o arquivo",
		KeyInputError:           "Erro de entrada",
		KeyPleaseEnterURL:       "Informe uma URL do YouTube",
		KeyCouldNotCreateDir:    "Não foi possível criar a pasta de saída",
		KeyAlreadyInQueue:       "Este vídeo já está sendo transcrito",
		KeyPlaylistEmpty:        "A playlist não tem vídeos para transcrever",
		KeyTranscriptionDone:    "Transcrição concluída",
		KeyTranscriptionSavedTo: "Transcrição salva em: %s",
		KeyCompleteAndSavedTo:   "Transcrição concluída e salva em:\n%s",
		KeyBatchSummary:         "%d de %d transcrições salvas em:\n%s",
		KeyErrorPrefix:          "Erro: %s",
		KeyStopped:              "Parado",
		KeyConfirmExit:          "Confirmar saída",
		KeyConfirmExitMessage:   "Uma transcrição está em andamento. Deseja realmente sair?",
		KeyMissingTools:         "Ferramentas ausentes",
		KeyMissingToolsMessage:  "Algumas ferramentas necessárias não foram encontradas:",
		KeySave:                 "Salvar",
		KeyCancel:               "Cancelar",
		KeyClose:                "Fechar",
		KeyOpen:                 "Abrir",
		KeyReveal:               "Mostrar",
		KeyLoad:                 "Carregar",
		KeySettingsSaved:        "Configurações salvas com sucesso!",
		KeyNoHistory:            "Nenhuma transcrição ainda",
		KeyTranscriptLanguage:   "Idioma da fala:",
		KeyAppLanguage:          "Idioma da interface:",
		KeyWhisperBinary:        "Binário do whisper.cpp:",
		KeyModelsDirectory:      "Pasta de modelos:",
		KeyOpenAIKey:            "Chave da API OpenAI:",
		KeyMaxParallel:          "Máx. de tarefas paralelas:",
		KeyTranscriptionGroup:   "Configurações de transcrição",
		KeyInterfaceGroup:       "Configurações da interface",
		KeyErrorOpeningFile:     "Erro ao abrir arquivo",
	}
}
