package browser

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound means the selector matched nothing.
	ErrNotFound = errors.New("element not found")
	// ErrTimeout means the wait window elapsed before the element was ready.
	ErrTimeout = errors.New("timed out waiting for element")
	// ErrStale means the element left the DOM between lookup and read.
	ErrStale = errors.New("element is no longer attached to the page")
)

// Selector locates an element by CSS, optionally narrowed to elements whose
// text contains one of HasText.
type Selector struct {
	CSS     string   `yaml:"css"`
	HasText []string `yaml:"has_text,omitempty"`
}

// CSS is a shorthand for a plain CSS selector.
func CSS(css string) Selector {
	return Selector{CSS: css}
}

func (s Selector) String() string {
	if len(s.HasText) == 0 {
		return s.CSS
	}
	return s.CSS + " (has text " + strings.Join(s.HasText, " | ") + ")"
}

// matchesText reports whether text passes the HasText filter.
func (s Selector) matchesText(text string) bool {
	if len(s.HasText) == 0 {
		return true
	}
	for _, want := range s.HasText {
		if strings.Contains(text, want) {
			return true
		}
	}
	return false
}

// Page is the slice of a browser tab the scraper needs.
type Page interface {
	// Goto navigates to url and waits for the DOM to load.
	Goto(url string) error
	// URL returns the current page address.
	URL() string
	// Click waits up to timeout for the element to become clickable and clicks it.
	Click(sel Selector, timeout time.Duration) error
	// WaitFor waits up to timeout for the element to be present.
	WaitFor(sel Selector, timeout time.Duration) (Element, error)
	// Screenshot writes a full-page capture to path.
	Screenshot(path string) error
}

// Element is a node found on a Page.
type Element interface {
	// All returns every descendant matching sel, in document order.
	All(sel Selector) ([]Element, error)
	// Find returns the first descendant matching sel or ErrNotFound.
	Find(sel Selector) (Element, error)
	// Text returns the rendered text of the element.
	Text() (string, error)
	// Attr returns the named attribute, or "" when absent.
	Attr(name string) (string, error)
}

// Session is a Page that owns browser resources.
type Session interface {
	Page
	Close() error
}
