package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Omarlsant/job-scraper/internal/browser"
	"github.com/Omarlsant/job-scraper/internal/config"
	"github.com/Omarlsant/job-scraper/internal/models"
)

// extractText reads the first match of sel inside el. Lookups that fail
// because the element is missing (or never became readable) give
// NotAvailable; any other error, including a stale element, is returned so
// the caller can drop the whole record.
func extractText(el browser.Element, sel browser.Selector) (string, error) {
	child, err := el.Find(sel)
	if err != nil {
		return sentinelOr(err)
	}
	text, err := child.Text()
	if err != nil {
		return sentinelOr(err)
	}
	if text = cleanText(text); text == "" {
		return models.NotAvailable, nil
	}
	return text, nil
}

// extractLink reads a link's text and its href resolved against base.
// A missing link gives NotAvailable for both.
func extractLink(el browser.Element, sel browser.Selector, base string) (text, link string, err error) {
	child, err := el.Find(sel)
	if err != nil {
		text, err = sentinelOr(err)
		return text, models.NotAvailable, err
	}

	raw, err := child.Text()
	if err != nil {
		text, err = sentinelOr(err)
		return text, models.NotAvailable, err
	}
	text = cleanText(raw)
	if text == "" {
		text = models.NotAvailable
	}

	href, err := child.Attr("href")
	if err != nil {
		link, err = sentinelOr(err)
		return text, link, err
	}
	return text, resolveURL(base, href), nil
}

func sentinelOr(err error) (string, error) {
	if errors.Is(err, browser.ErrNotFound) || errors.Is(err, browser.ErrTimeout) {
		return models.NotAvailable, nil
	}
	return models.NotAvailable, err
}

func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return models.NotAvailable
	}
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil || base == "" {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// extractListing reads every field of one card. Each lookup is independent.
func extractListing(item browser.Element, sel config.Selectors, base string) (models.JobListing, error) {
	job := models.NewJobListing()

	var err error
	if job.Title, job.URL, err = extractLink(item, sel.TitleLink, base); err != nil {
		return job, fmt.Errorf("title: %w", err)
	}

	fields := []struct {
		name string
		sel  browser.Selector
		dst  *string
	}{
		{"company", sel.Company, &job.Company},
		{"location", sel.Location, &job.Location},
		{"work format", sel.WorkFormat, &job.WorkFormat},
		{"publication date", sel.PublicationDate, &job.PublicationDate},
		{"description", sel.Description, &job.Description},
		{"contract type", sel.ContractType, &job.ContractType},
		{"work type", sel.WorkType, &job.WorkType},
		{"salary", sel.Salary, &job.Salary},
	}
	for _, f := range fields {
		if *f.dst, err = extractText(item, f.sel); err != nil {
			return job, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return job, nil
}

// extract walks the first MaxJobs cards of the container. A card that fails
// is skipped; the rest are still read.
func (s *Scraper) extract(ctx context.Context, page browser.Page, container browser.Element) ([]models.JobListing, error) {
	items, err := container.All(s.cfg.Selectors.Item)
	if err != nil {
		return nil, fmt.Errorf("list job cards: %w", err)
	}
	s.log.Info("📦 Found job cards", "count", len(items), "limit", s.cfg.MaxJobs)

	if len(items) > s.cfg.MaxJobs {
		items = items[:s.cfg.MaxJobs]
	}

	base := page.URL()
	if base == "" {
		base = s.cfg.TargetURL
	}

	var jobs []models.JobListing
	for i, item := range items {
		if i > 0 {
			if _, err := s.delay.Wait(ctx); err != nil {
				return jobs, err
			}
		}

		job, err := extractListing(item, s.cfg.Selectors, base)
		if err != nil {
			if errors.Is(err, browser.ErrStale) {
				s.log.Warn("⚠️ Stale element, skipping card", "index", i, "error", err)
				continue
			}
			s.log.Error("❌ Failed to extract card", "index", i, "error", err)
			s.shots.CaptureAndLog(page, fmt.Sprintf("extraction-error-%d", len(jobs)))
			continue
		}

		jobs = append(jobs, job)
		s.log.Info("✅ Extracted", "title", job.Title, "company", job.Company)
	}
	return jobs, nil
}
