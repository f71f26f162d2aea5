package main

import (
	"os"

	"github.com/joho/godotenv"

	"checkit-dashboard/pkg/logger"
)

func main() {
	logger.Init()
	defer func() {
		if err := logger.Close(); err != nil {
			logger.Error(err, "Failed to close log file", nil)
		}
	}()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables", nil)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
