package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/Omarlsant/job-scraper/internal/browser"
)

var (
	errNavigation       = errors.New("navigation failed")
	errContainerTimeout = errors.New("listings container not found in time")
)

// load opens the target page, dismisses the cookie banner when it shows up
// and waits for the listings container.
func (s *Scraper) load(ctx context.Context, page browser.Page) (browser.Element, error) {
	s.log.Info("🌐 Connecting to job board", "url", s.cfg.TargetURL)
	if err := page.Goto(s.cfg.TargetURL); err != nil {
		s.log.Error("❌ Failed to open target page", "url", s.cfg.TargetURL, "error", err)
		s.shots.CaptureAndLog(page, "error-general")
		return nil, fmt.Errorf("%w: %v", errNavigation, err)
	}

	// consent is best-effort
	if err := page.Click(s.cfg.Selectors.ConsentButton, s.cfg.WaitTimeout); err != nil {
		s.log.Warn("⚠️ Cookie notice not found or could not be accepted", "error", err)
	} else {
		s.log.Info("🍪 Cookies accepted")
		if _, err := s.delay.Wait(ctx); err != nil {
			return nil, err
		}
	}

	container, err := page.WaitFor(s.cfg.Selectors.Container, s.cfg.WaitTimeout)
	if err != nil {
		if errors.Is(err, browser.ErrTimeout) {
			s.log.Error("❌ Timed out waiting for listings container", "selector", s.cfg.Selectors.Container.String(), "timeout", s.cfg.WaitTimeout)
			s.shots.CaptureAndLog(page, "timeout-container")
			return nil, fmt.Errorf("%w: %v", errContainerTimeout, err)
		}
		s.log.Error("❌ Failed to find listings container", "error", err)
		return nil, err
	}
	return container, nil
}
