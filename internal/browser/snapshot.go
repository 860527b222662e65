package browser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// SnapshotPage serves a saved HTML document through the Page interface.
// Nothing is fetched and nothing changes, so waits either succeed at once
// or time out at once.
type SnapshotPage struct {
	doc *goquery.Document
	url string
}

// NewSnapshotPage parses an HTML document.
func NewSnapshotPage(r io.Reader) (*SnapshotPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &SnapshotPage{doc: doc}, nil
}

// OpenSnapshot parses the HTML file at path.
func OpenSnapshot(path string) (*SnapshotPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewSnapshotPage(f)
}

// Goto records url as the page address; the document itself stays the same.
func (p *SnapshotPage) Goto(url string) error {
	p.url = url
	return nil
}

func (p *SnapshotPage) URL() string {
	return p.url
}

func (p *SnapshotPage) Click(sel Selector, _ time.Duration) error {
	if find(p.doc.Selection, sel).Length() == 0 {
		return fmt.Errorf("%w: %s", ErrTimeout, sel)
	}
	return nil
}

func (p *SnapshotPage) WaitFor(sel Selector, _ time.Duration) (Element, error) {
	s := find(p.doc.Selection, sel)
	if s.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTimeout, sel)
	}
	return &selectionElement{s: s.First()}, nil
}

// Screenshot is not possible without a renderer.
func (p *SnapshotPage) Screenshot(string) error {
	return errors.ErrUnsupported
}

func (p *SnapshotPage) Close() error {
	return nil
}

type selectionElement struct {
	s *goquery.Selection
}

func (e *selectionElement) All(sel Selector) ([]Element, error) {
	matches := find(e.s, sel)
	out := make([]Element, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &selectionElement{s: s})
	})
	return out, nil
}

func (e *selectionElement) Find(sel Selector) (Element, error) {
	s := find(e.s, sel)
	if s.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sel)
	}
	return &selectionElement{s: s.First()}, nil
}

func (e *selectionElement) Text() (string, error) {
	return strings.TrimSpace(e.s.Text()), nil
}

func (e *selectionElement) Attr(name string) (string, error) {
	val, _ := e.s.Attr(name)
	return val, nil
}

func find(s *goquery.Selection, sel Selector) *goquery.Selection {
	return s.Find(sel.CSS).FilterFunction(func(_ int, m *goquery.Selection) bool {
		return sel.matchesText(m.Text())
	})
}
