// Package output renders listings for dry runs.
package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Omarlsant/job-scraper/internal/models"
)

const defaultMaxWidth = 40

// Printer stands in for the database on dry runs: listings are written as a
// table instead of being stored.
type Printer struct {
	w        io.Writer
	maxWidth int
}

func NewPrinter(w io.Writer, maxWidth int) *Printer {
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}
	return &Printer{w: w, maxWidth: maxWidth}
}

// EnsureSchema has nothing to prepare.
func (p *Printer) EnsureSchema(context.Context) error {
	return nil
}

// InsertListings prints the batch and reports every row as written.
func (p *Printer) InsertListings(_ context.Context, listings []models.JobListing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}
	if _, err := io.WriteString(p.w, strings.Join(p.Table(listings), "\n")+"\n"); err != nil {
		return 0, fmt.Errorf("write listings: %w", err)
	}
	return len(listings), nil
}

var headers = []string{"#", "Title", "Company", "Location", "Format", "Published", "Contract", "Schedule", "Salary", "URL"}

// Table lays listings out as a markdown-style table padded by display width,
// so accented and wide characters stay aligned.
func (p *Printer) Table(listings []models.JobListing) []string {
	rows := make([][]string, 0, len(listings)+1)
	rows = append(rows, append([]string(nil), headers...))
	for i, job := range listings {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			job.Title,
			job.Company,
			job.Location,
			job.WorkFormat,
			job.PublicationDate,
			job.ContractType,
			job.WorkType,
			job.Salary,
			job.URL,
		})
	}

	widths := make([]int, len(headers))
	for i := range widths {
		widths[i] = 3
	}
	for r, row := range rows {
		for c, cell := range row {
			// URLs are printed whole so they stay clickable.
			if c != len(headers)-1 {
				cell = runewidth.Truncate(cell, p.maxWidth, "…")
				rows[r][c] = cell
			}
			if w := runewidth.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for r, row := range rows {
		lines = append(lines, formatRow(row, widths))
		if r == 0 {
			sep := make([]string, len(widths))
			for i, w := range widths {
				sep[i] = strings.Repeat("-", w)
			}
			lines = append(lines, formatRow(sep, widths))
		}
	}
	return lines
}

func formatRow(row []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, cell := range row {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	return sb.String()
}
