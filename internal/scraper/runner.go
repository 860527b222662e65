package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/Omarlsant/job-scraper/internal/browser"
	"github.com/Omarlsant/job-scraper/internal/config"
	"github.com/Omarlsant/job-scraper/internal/filter"
	"github.com/Omarlsant/job-scraper/utils"
)

// Outcome names how a run ended.
type Outcome string

const (
	OutcomeStored           Outcome = "stored"
	OutcomeNothingToStore   Outcome = "nothing_to_store"
	OutcomeNoListings       Outcome = "no_listings"
	OutcomeLaunchFailed     Outcome = "launch_failed"
	OutcomeLoadFailed       Outcome = "load_failed"
	OutcomeContainerTimeout Outcome = "container_timeout"
	OutcomeExtractFailed    Outcome = "extract_failed"
	OutcomeStoreFailed      Outcome = "store_failed"
	OutcomeCanceled         Outcome = "canceled"
	OutcomePanic            Outcome = "panic"
)

// Report summarizes one run.
type Report struct {
	Extracted   int
	Persistable int
	Stored      int
	Outcome     Outcome
}

// Scraper runs the load → extract → store pipeline once.
type Scraper struct {
	cfg    *config.Config
	store  Store
	launch Launcher
	delay  browser.Delay
	log    *slog.Logger
	shots  *utils.ScreenShotDebugger
}

func New(cfg *config.Config, store Store, launch Launcher, log *slog.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		store:  store,
		launch: launch,
		delay:  browser.NewDelay(cfg.Delay.Min, cfg.Delay.Max),
		log:    log,
		shots:  utils.NewScreenShotDebugger(cfg.ScreenshotDir, log),
	}
}

// WithSleep replaces the blocking sleep used by the random delay.
func (s *Scraper) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Scraper {
	s.delay.Sleep = sleep
	return s
}

// Run never returns an error: every failure ends in the log and in
// Report.Outcome. The browser session is closed exactly once on every path.
func (s *Scraper) Run(ctx context.Context) (report Report) {
	// panics before a session exists
	defer func() {
		if r := recover(); r != nil {
			report.Outcome = s.recovered(r, nil)
		}
	}()

	if err := s.store.EnsureSchema(ctx); err != nil {
		s.log.Error("❌ Failed to create database or table", "error", err)
	} else {
		s.log.Info("🗄️ Database and table ready")
	}

	session, err := s.launch(ctx)
	if err != nil {
		s.log.Error("❌ Failed to start browser", "error", err)
		report.Outcome = OutcomeLaunchFailed
		return report
	}
	s.log.Info("✅ Browser initialized")

	defer func() {
		if r := recover(); r != nil {
			report.Outcome = s.recovered(r, session)
		}
		if err := session.Close(); err != nil {
			s.log.Warn("⚠️ Failed to close browser", "error", err)
		}
		s.log.Info("🏁 Scraper finished",
			"outcome", string(report.Outcome),
			"extracted", report.Extracted,
			"stored", report.Stored)
	}()

	container, err := s.load(ctx, session)
	if err != nil {
		report.Outcome = loadOutcome(ctx, err)
		return report
	}

	jobs, err := s.extract(ctx, session, container)
	report.Extracted = len(jobs)
	if err != nil {
		if ctx.Err() != nil {
			s.log.Error("❌ Run canceled during extraction", "error", err, "extracted", len(jobs))
			report.Outcome = OutcomeCanceled
			return report
		}
		s.log.Error("❌ Extraction failed", "error", err)
		s.shots.CaptureAndLog(session, "error-general")
		report.Outcome = OutcomeExtractFailed
		return report
	}

	if len(jobs) == 0 {
		s.log.Warn("⚠️ No listings extracted")
		report.Outcome = OutcomeNoListings
		return report
	}
	s.log.Info("📊 Total extracted", "count", len(jobs))

	keep, dropped := filter.Persistable(jobs)
	report.Persistable = len(keep)
	if len(dropped) > 0 {
		s.log.Info("🚫 Skipping incomplete listings (no title or company)", "count", len(dropped))
	}
	if len(keep) == 0 {
		report.Outcome = OutcomeNothingToStore
		return report
	}

	s.log.Info("💾 Saving to database", "count", len(keep))
	stored, err := s.store.InsertListings(ctx, keep)
	if err != nil {
		s.log.Error("❌ Failed to insert listings, batch rolled back", "error", err)
		report.Outcome = OutcomeStoreFailed
		return report
	}
	report.Stored = stored
	report.Outcome = OutcomeStored
	s.log.Info("✅ Listings saved", "count", stored)
	return report
}

// recovered logs a panic as a general error, capturing the page when there
// is one.
func (s *Scraper) recovered(r any, page browser.Page) Outcome {
	s.log.Error("❌ Unexpected error", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
	if page != nil {
		s.shots.CaptureAndLog(page, "error-general")
	}
	return OutcomePanic
}

func loadOutcome(ctx context.Context, err error) Outcome {
	switch {
	case errors.Is(err, errContainerTimeout):
		return OutcomeContainerTimeout
	case ctx.Err() != nil:
		return OutcomeCanceled
	}
	return OutcomeLoadFailed
}
