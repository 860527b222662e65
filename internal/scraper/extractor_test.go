package scraper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Omarlsant/job-scraper/internal/browser"
	"github.com/Omarlsant/job-scraper/internal/config"
	"github.com/Omarlsant/job-scraper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractListing_AllFieldsPresent(t *testing.T) {
	sel := config.DefaultSelectors()

	job, err := extractListing(fullCard(sel), sel, config.DefaultTargetURL)
	require.NoError(t, err)
	assert.Equal(t, fullListing(), job)

	for _, v := range job.Values() {
		assert.NotEqual(t, models.NotAvailable, v)
	}
}

func TestExtractListing_FieldIsolation(t *testing.T) {
	sel := config.DefaultSelectors()

	tests := []struct {
		name  string
		key   string
		field func(j *models.JobListing) *string
	}{
		{"company", sel.Company.String(), func(j *models.JobListing) *string { return &j.Company }},
		{"location", sel.Location.String(), func(j *models.JobListing) *string { return &j.Location }},
		{"work format", sel.WorkFormat.String(), func(j *models.JobListing) *string { return &j.WorkFormat }},
		{"publication date", sel.PublicationDate.String(), func(j *models.JobListing) *string { return &j.PublicationDate }},
		{"description", sel.Description.String(), func(j *models.JobListing) *string { return &j.Description }},
		{"contract type", sel.ContractType.String(), func(j *models.JobListing) *string { return &j.ContractType }},
		{"work type", sel.WorkType.String(), func(j *models.JobListing) *string { return &j.WorkType }},
		{"salary", sel.Salary.String(), func(j *models.JobListing) *string { return &j.Salary }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := fullCard(sel)
			delete(el.children, tt.key)

			got, err := extractListing(el, sel, config.DefaultTargetURL)
			require.NoError(t, err)

			want := fullListing()
			*tt.field(&want) = models.NotAvailable
			assert.Equal(t, want, got)
		})
	}
}

func TestExtractListing_MissingTitleClearsURL(t *testing.T) {
	sel := config.DefaultSelectors()
	el := fullCard(sel)
	delete(el.children, sel.TitleLink.String())

	got, err := extractListing(el, sel, config.DefaultTargetURL)
	require.NoError(t, err)
	assert.Equal(t, models.NotAvailable, got.Title)
	assert.Equal(t, models.NotAvailable, got.URL)
	assert.Equal(t, "Test Company", got.Company)
}

func TestExtractListing_TimeoutIsSentinel(t *testing.T) {
	sel := config.DefaultSelectors()
	el := fullCard(sel)
	el.children[sel.Salary.String()].textErr = browser.ErrTimeout

	got, err := extractListing(el, sel, config.DefaultTargetURL)
	require.NoError(t, err)
	assert.Equal(t, models.NotAvailable, got.Salary)
}

func TestExtractListing_StaleIsReported(t *testing.T) {
	sel := config.DefaultSelectors()
	el := fullCard(sel)
	el.findErr[sel.Location.String()] = browser.ErrStale

	_, err := extractListing(el, sel, config.DefaultTargetURL)
	assert.ErrorIs(t, err, browser.ErrStale)
	assert.ErrorContains(t, err, "location")
}

func TestExtractText(t *testing.T) {
	sel := browser.CSS(".salary")

	tests := []struct {
		name string
		el   *fakeElement
		want string
	}{
		{
			name: "trims and collapses whitespace",
			el:   &fakeElement{children: map[string]*fakeElement{".salary": {text: "\n  30.000€ -\n 40.000€  "}}},
			want: "30.000€ - 40.000€",
		},
		{
			name: "blank text is not available",
			el:   &fakeElement{children: map[string]*fakeElement{".salary": {text: "   "}}},
			want: models.NotAvailable,
		},
		{
			name: "missing element is not available",
			el:   &fakeElement{},
			want: models.NotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractText(tt.el, sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveURL(t *testing.T) {
	base := "https://www.infojobs.net/ofertas-trabajo/frontend"

	assert.Equal(t, "https://www.infojobs.net/madrid/dev/of-i1", resolveURL(base, "/madrid/dev/of-i1"))
	assert.Equal(t, "https://www.infojobs.net/madrid/dev/of-i1", resolveURL(base, "//www.infojobs.net/madrid/dev/of-i1"))
	assert.Equal(t, "http://test.com", resolveURL(base, "http://test.com"))
	assert.Equal(t, models.NotAvailable, resolveURL(base, " "))
}

func TestExtract_LimitsToMaxJobs(t *testing.T) {
	sel := config.DefaultSelectors()
	cfg := testConfig(t.TempDir())
	cfg.MaxJobs = 3

	container := &fakeElement{}
	for i := 0; i < 5; i++ {
		container.items = append(container.items, fullCard(sel))
	}

	log, _ := testLogger()
	s := New(cfg, &fakeStore{}, nil, log)

	jobs, err := s.extract(context.Background(), &fakePage{}, container)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
}

func TestExtract_SkipsFailedCards(t *testing.T) {
	sel := config.DefaultSelectors()
	cfg := testConfig(t.TempDir())

	stale := fullCard(sel)
	stale.findErr[sel.Company.String()] = browser.ErrStale
	broken := fullCard(sel)
	broken.findErr[sel.Description.String()] = fmt.Errorf("protocol error")

	container := &fakeElement{items: []browser.Element{stale, fullCard(sel), broken}}
	page := &fakePage{}

	log, buf := testLogger()
	s := New(cfg, &fakeStore{}, nil, log)

	jobs, err := s.extract(context.Background(), page, container)
	require.NoError(t, err)
	assert.Equal(t, []models.JobListing{fullListing()}, jobs)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Len(t, page.screenshots, 1, "only the unexpected error is captured")
	assert.Contains(t, page.screenshots[0], "extraction-error-1")
}

func TestExtract_DelaysBetweenRecords(t *testing.T) {
	sel := config.DefaultSelectors()
	cfg := testConfig(t.TempDir())
	cfg.Delay = config.Delay{Min: 2 * time.Second, Max: 4 * time.Second}

	container := &fakeElement{items: []browser.Element{fullCard(sel), fullCard(sel), fullCard(sel)}}

	var slept []time.Duration
	log, _ := testLogger()
	s := New(cfg, &fakeStore{}, nil, log).WithSleep(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})

	jobs, err := s.extract(context.Background(), &fakePage{}, container)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
	require.Len(t, slept, 2)
	for _, d := range slept {
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 4*time.Second)
	}
}

func TestExtract_StopsWhenCanceled(t *testing.T) {
	sel := config.DefaultSelectors()
	cfg := testConfig(t.TempDir())
	cfg.Delay = config.Delay{Min: time.Hour, Max: time.Hour}

	container := &fakeElement{items: []browser.Element{fullCard(sel), fullCard(sel)}}

	ctx, cancel := context.WithCancel(context.Background())
	log, _ := testLogger()
	s := New(cfg, &fakeStore{}, nil, log).WithSleep(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	jobs, err := s.extract(ctx, &fakePage{}, container)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, jobs, 1)
}
