package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Omarlsant/job-scraper/internal/browser"
	"github.com/Omarlsant/job-scraper/internal/config"
	"github.com/Omarlsant/job-scraper/internal/logger"
	"github.com/Omarlsant/job-scraper/internal/models"
)

// fakeElement answers Find/All from maps keyed by Selector.String().
type fakeElement struct {
	text     string
	textErr  error
	attrs    map[string]string
	children map[string]*fakeElement
	findErr  map[string]error
	items    []browser.Element
	allErr   error
	panicOn  string
}

func (e *fakeElement) All(sel browser.Selector) ([]browser.Element, error) {
	return e.items, e.allErr
}

func (e *fakeElement) Find(sel browser.Selector) (browser.Element, error) {
	key := sel.String()
	if key == e.panicOn {
		panic("driver crashed")
	}
	if err, ok := e.findErr[key]; ok {
		return nil, err
	}
	if child, ok := e.children[key]; ok {
		return child, nil
	}
	return nil, fmt.Errorf("%w: %s", browser.ErrNotFound, key)
}

func (e *fakeElement) Text() (string, error) {
	return e.text, e.textErr
}

func (e *fakeElement) Attr(name string) (string, error) {
	return e.attrs[name], nil
}

// fakePage records what the pipeline asked of the browser.
type fakePage struct {
	url         string
	gotoErr     error
	clickErr    error
	waitErr     error
	container   *fakeElement
	gotos       []string
	clicks      []browser.Selector
	waits       []browser.Selector
	screenshots []string
	closeCount  int
}

func (p *fakePage) Goto(url string) error {
	p.gotos = append(p.gotos, url)
	if p.gotoErr == nil {
		p.url = url
	}
	return p.gotoErr
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Click(sel browser.Selector, _ time.Duration) error {
	p.clicks = append(p.clicks, sel)
	return p.clickErr
}

func (p *fakePage) WaitFor(sel browser.Selector, _ time.Duration) (browser.Element, error) {
	p.waits = append(p.waits, sel)
	if p.waitErr != nil {
		return nil, p.waitErr
	}
	return p.container, nil
}

func (p *fakePage) Screenshot(path string) error {
	p.screenshots = append(p.screenshots, path)
	return nil
}

func (p *fakePage) Close() error {
	p.closeCount++
	return nil
}

type fakeStore struct {
	ensureCalls int
	ensureErr   error
	ensurePanic any
	inserts     [][]models.JobListing
	insertErr   error
}

func (s *fakeStore) EnsureSchema(context.Context) error {
	s.ensureCalls++
	if s.ensurePanic != nil {
		panic(s.ensurePanic)
	}
	return s.ensureErr
}

func (s *fakeStore) InsertListings(_ context.Context, listings []models.JobListing) (int, error) {
	s.inserts = append(s.inserts, listings)
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	return len(listings), nil
}

// card builds a listing element; fields maps selector keys to text.
func card(sel config.Selectors, title, href string, fields map[string]string) *fakeElement {
	el := &fakeElement{children: map[string]*fakeElement{}, findErr: map[string]error{}}
	if title != "" {
		el.children[sel.TitleLink.String()] = &fakeElement{text: title, attrs: map[string]string{"href": href}}
	}
	for key, text := range fields {
		el.children[key] = &fakeElement{text: text}
	}
	return el
}

func fullCard(sel config.Selectors) *fakeElement {
	return card(sel, "Frontend Developer", "http://test.com", map[string]string{
		sel.Company.String():         "Test Company",
		sel.Location.String():        "Madrid",
		sel.WorkFormat.String():      "Remoto",
		sel.PublicationDate.String(): "Hoy",
		sel.Description.String():     "Test description",
		sel.ContractType.String():    "Indefinido",
		sel.WorkType.String():        "Completa",
		sel.Salary.String():          "30000€",
	})
}

func fullListing() models.JobListing {
	return models.JobListing{
		Title:           "Frontend Developer",
		Company:         "Test Company",
		Location:        "Madrid",
		WorkFormat:      "Remoto",
		PublicationDate: "Hoy",
		Description:     "Test description",
		ContractType:    "Indefinido",
		WorkType:        "Completa",
		Salary:          "30000€",
		URL:             "http://test.com",
	}
}

func testConfig(screenshotDir string) *config.Config {
	cfg := config.Default()
	cfg.Delay = config.Delay{}
	cfg.ScreenshotDir = screenshotDir
	return cfg
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(&buf, "debug"), &buf
}
