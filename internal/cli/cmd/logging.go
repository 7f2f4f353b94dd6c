package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	env "VSLauncher/pkg"
)

var logFile *os.File

// initLogging initializes logging to a file in the workspace logs directory
func initLogging() error {
	if err := os.MkdirAll(env.LogsDir, 0755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	logPath := filepath.Join(env.LogsDir, "vslauncher.log")
	var err error
	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logMessage("=== launcher started ===")
	return nil
}

// logMessage logs a message to the log file when logging is initialized
func logMessage(message string) {
	if logFile != nil {
		log.Println(message)
	}
}

// closeLogging closes the log file
func closeLogging() {
	if logFile != nil {
		logMessage("=== launcher finished ===")
		logFile.Close()
		logFile = nil
	}
}
