package main

import (
	"log/slog"
	"os"

	"aqseries/internal/app"
	"aqseries/internal/infrastructure"
)

func main() {
	// Configuration comes from AQ_* environment variables and config.yaml
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if err := application.Run(); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}
