package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Omarlsant/job-scraper/internal/browser"
)

// ScreenShotDebugger captures the page on failure paths.
type ScreenShotDebugger struct {
	outputDir string
	log       *slog.Logger
}

func NewScreenShotDebugger(dir string, log *slog.Logger) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log,
	}
}

// CaptureAndLog writes <name>_<timestamp>.png and returns its path.
// Failures are logged and returned but never fatal to the caller.
func (s *ScreenShotDebugger) CaptureAndLog(page browser.Page, name string) (string, error) {
	if page == nil {
		return "", nil
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		s.log.Warn("⚠️ Failed to create screenshot directory", "dir", s.outputDir, "error", err)
		return "", err
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))

	if err := page.Screenshot(path); err != nil {
		if errors.Is(err, errors.ErrUnsupported) {
			s.log.Debug("screenshot not supported by page", "name", name)
			return "", nil
		}
		s.log.Warn("⚠️ Failed to capture screenshot", "name", name, "error", err)
		return "", err
	}

	s.log.Info("📸 Screenshot saved", "path", path)
	return path, nil
}
