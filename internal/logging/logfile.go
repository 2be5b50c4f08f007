package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/isseis/go-shellexpand/internal/safefile"
)

const logFilePerm os.FileMode = 0o600

// GenerateRunID generates a new UUID v4 for run identification.
func GenerateRunID() string {
	return uuid.New().String()
}

// LogFilePath builds the per-run JSON log file path inside dir. The name
// combines hostname, timestamp, and run ID so concurrent runs on shared
// log directories never collide.
func LogFilePath(dir, runID string) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", hostname, timestamp, runID))
}

// OpenLogFile creates the per-run JSON log file for this run inside dir,
// creating the directory if needed. The open refuses symlinks and existing
// files. The caller owns the returned file.
func OpenLogFile(dir, runID string) (*os.File, string, error) {
	path := LogFilePath(dir, runID)
	file, err := safefile.Create(path, logFilePerm)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, path, nil
}
