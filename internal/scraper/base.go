// Load the job board page
// Extract listing cards field by field
// Store complete listings

package scraper

import (
	"context"

	"github.com/Omarlsant/job-scraper/internal/browser"
	"github.com/Omarlsant/job-scraper/internal/models"
)

// Store is where complete listings end up.
type Store interface {
	// EnsureSchema creates the target database and table if absent.
	EnsureSchema(ctx context.Context) error
	// InsertListings stores the batch atomically and returns the row count.
	InsertListings(ctx context.Context, listings []models.JobListing) (int, error)
}

// Launcher opens the browser session for one run.
type Launcher func(ctx context.Context) (browser.Session, error)
