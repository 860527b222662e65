package filter

import "github.com/Omarlsant/job-scraper/internal/models"

// ShouldPersist reports whether a listing is complete enough to store:
// both title and company must have been read from the page.
func ShouldPersist(job models.JobListing) bool {
	return job.Title != models.NotAvailable && job.Company != models.NotAvailable
}

// Persistable splits listings into those to store and those to drop,
// keeping the input order in both.
func Persistable(jobs []models.JobListing) (keep, dropped []models.JobListing) {
	for _, job := range jobs {
		if ShouldPersist(job) {
			keep = append(keep, job)
		} else {
			dropped = append(dropped, job)
		}
	}
	return keep, dropped
}
