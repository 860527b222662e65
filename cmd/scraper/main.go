package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/Omarlsant/job-scraper/internal/browser"
	"github.com/Omarlsant/job-scraper/internal/config"
	"github.com/Omarlsant/job-scraper/internal/database"
	"github.com/Omarlsant/job-scraper/internal/logger"
	"github.com/Omarlsant/job-scraper/internal/output"
	"github.com/Omarlsant/job-scraper/internal/scraper"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("scraper", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the YAML config (default configs/config.yaml or $SCRAPER_CONFIG)")
	snapshot := fs.String("snapshot", "", "read listings from a saved HTML page instead of launching a browser")
	dryRun := fs.Bool("dry-run", false, "print listings instead of storing them")
	maxJobs := fs.Int("max-jobs", 0, "override max_jobs")
	noDelay := fs.Bool("no-delay", false, "disable the random delay between interactions")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	//log settings first, so config errors reach the log file
	cfg, readErr := config.Read(*configPath)
	if readErr != nil {
		cfg = config.Default()
	}
	log, closer, err := logger.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		slog.Error("❌ Failed to open log file", "path", cfg.LogFile, "error", err)
		return 1
	}
	defer closer.Close()

	if readErr != nil {
		log.Error("❌ Invalid configuration", "error", readErr)
		return 1
	}
	cfg.DryRun = *dryRun
	if err := cfg.Resolve(os.LookupEnv); err != nil {
		var missing *config.MissingEnvError
		if errors.As(err, &missing) {
			log.Error("❌ Missing environment variables", "names", missing.Names)
		} else {
			log.Error("❌ Invalid configuration", "error", err)
		}
		return 1
	}
	if *maxJobs > 0 {
		cfg.MaxJobs = *maxJobs
	}
	if *noDelay {
		cfg.Delay = config.Delay{}
	}

	//one run at a time
	if cfg.LockFile != "" {
		if dir := filepath.Dir(cfg.LockFile); dir != "." {
			_ = os.MkdirAll(dir, 0755)
		}
		lock := flock.New(cfg.LockFile)
		locked, err := lock.TryLock()
		if err != nil {
			log.Error("❌ Failed to acquire lock", "path", cfg.LockFile, "error", err)
			return 1
		}
		if !locked {
			log.Error("❌ Another run is in progress", "lock", cfg.LockFile)
			return 1
		}
		defer lock.Unlock()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	log.Info("🚀 Starting scraper",
		"url", cfg.TargetURL,
		"max_jobs", cfg.MaxJobs,
		"dry_run", cfg.DryRun)

	store, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("❌ Failed to connect to database", "driver", cfg.Database.Driver, "addr", cfg.Database.Addr(), "error", err)
		return 0
	}
	defer cleanup()

	report := scraper.New(cfg, store, launcher(cfg, *snapshot), log).Run(ctx)

	if repo, ok := store.(*database.Repository); ok && report.Outcome == scraper.OutcomeStored {
		if total, err := repo.CountListings(context.Background()); err == nil {
			log.Info("📚 Rows in table", "table", repo.Table(), "total", total)
		}
	}
	return 0
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (scraper.Store, func(), error) {
	if cfg.DryRun {
		return output.NewPrinter(os.Stdout, 0), func() {}, nil
	}

	repo, err := database.ConnectDB(ctx, cfg.Database, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	log.Info("✅ Connected to database", "driver", cfg.Database.Driver, "table", repo.Table())
	return repo, func() {
		if err := repo.Close(); err != nil {
			log.Warn("⚠️ Failed to close database", "error", err)
		}
	}, nil
}

func launcher(cfg *config.Config, snapshot string) scraper.Launcher {
	if snapshot != "" {
		return func(context.Context) (browser.Session, error) {
			page, err := browser.OpenSnapshot(snapshot)
			if err != nil {
				return nil, fmt.Errorf("open snapshot: %w", err)
			}
			return page, nil
		}
	}
	return func(context.Context) (browser.Session, error) {
		return browser.Launch(browser.Options{
			Headless:    cfg.Browser.Headless,
			Locale:      cfg.Browser.Locale,
			CookiesFile: cfg.Browser.CookiesFile,
		})
	}
}
