package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/ytget/yt-transcriber/internal/bootstrap"
	"github.com/ytget/yt-transcriber/internal/config"
	"github.com/ytget/yt-transcriber/internal/logging"
	"github.com/ytget/yt-transcriber/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-transcriber"
	AppName = "YT Transcriber"

	ShutdownTimeout = 10 * time.Second
)

func main() {
	logger, err := logging.New(logging.DevelopmentFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", version))

	if envPath, err := config.LoadEnv(); err != nil {
		logger.Warn("failed to load .env", zap.Error(err))
	} else if envPath != "" {
		logger.Info("loaded environment", zap.String("path", envPath))
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	settings := config.NewSettings(myApp)
	stack, err := bootstrap.InitializeStack(settings, logger)
	if err != nil {
		logger.Fatal("failed to initialize services", zap.Error(err))
	}

	deps := ui.Dependencies{
		Runner:   stack.Pipeline,
		Settings: settings,
		Checker:  stack.Checker,
		Logger:   logger,
		OnSettingsChanged: func() {
			stack.Reconfigure(settings)
		},
	}
	if stack.History != nil {
		deps.History = stack.History
	}

	rootUI := ui.NewRootUI(myWindow, myApp, deps)
	rootUI.RunStartupChecks()

	myWindow.ShowAndRun()

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := stack.Close(ctx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}
