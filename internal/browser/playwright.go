package browser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options controls how the Chromium session is launched.
type Options struct {
	Headless    bool
	Locale      string
	CookiesFile string
	// NavTimeout bounds page navigations.
	NavTimeout time.Duration
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewPlaywright starts the driver and launches Chromium.
func NewPlaywright(opts Options) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	args := []string{"--start-maximized"}
	if lang := languageOf(opts.Locale); lang != "" {
		args = append(args, "--lang="+lang)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     args,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: browser}, nil
}

// NewContext creates an isolated browser context preloaded with cookies.
func (pm *PlaywrightManager) NewContext(locale string, cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	ctxOpts := playwright.BrowserNewContextOptions{}
	if locale != "" {
		ctxOpts.Locale = playwright.String(locale)
	}

	browserCtx, err := pm.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			_ = browserCtx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return browserCtx, nil
}

func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Launch starts Chromium and opens a single page. The returned Session owns
// every resource it created; Close releases them all.
func Launch(opts Options) (Session, error) {
	var cookies []playwright.OptionalCookie
	if opts.CookiesFile != "" {
		loaded, err := LoadCookies(opts.CookiesFile)
		if err != nil {
			return nil, fmt.Errorf("load cookies: %w", err)
		}
		cookies = loaded
	}

	pm, err := NewPlaywright(opts)
	if err != nil {
		return nil, err
	}

	browserCtx, err := pm.NewContext(opts.Locale, cookies)
	if err != nil {
		_ = pm.Close()
		return nil, err
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		_ = pm.Close()
		return nil, fmt.Errorf("could not create new page: %w", err)
	}

	navTimeout := opts.NavTimeout
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}

	return &playwrightSession{
		manager:    pm,
		browserCtx: browserCtx,
		page:       page,
		navTimeout: navTimeout,
	}, nil
}

type playwrightSession struct {
	manager    *PlaywrightManager
	browserCtx playwright.BrowserContext
	page       playwright.Page
	navTimeout time.Duration
	closed     bool
}

func (s *playwrightSession) Goto(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(s.navTimeout),
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, classify(err))
	}
	return nil
}

func (s *playwrightSession) URL() string {
	return s.page.URL()
}

func (s *playwrightSession) Click(sel Selector, timeout time.Duration) error {
	loc := s.pageLocator(sel).First()
	if err := loc.Click(playwright.LocatorClickOptions{Timeout: millis(timeout)}); err != nil {
		return classify(err)
	}
	return nil
}

func (s *playwrightSession) WaitFor(sel Selector, timeout time.Duration) (Element, error) {
	loc := s.pageLocator(sel).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: millis(timeout),
	})
	if err != nil {
		return nil, classify(err)
	}
	return &locatorElement{loc: loc}, nil
}

func (s *playwrightSession) Screenshot(path string) error {
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Close closes the context, the browser and the driver. Repeated calls are no-ops.
func (s *playwrightSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.browserCtx.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if err := s.manager.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *playwrightSession) pageLocator(sel Selector) playwright.Locator {
	opts := playwright.PageLocatorOptions{}
	if re := hasTextPattern(sel); re != nil {
		opts.HasText = re
	}
	return s.page.Locator(sel.CSS, opts)
}

// locatorElement reads through a Playwright locator, so every read re-resolves
// the node instead of holding a handle.
type locatorElement struct {
	loc playwright.Locator
}

// fieldTimeout bounds reads of an element already known to exist.
const fieldTimeout = 2 * time.Second

func (e *locatorElement) All(sel Selector) ([]Element, error) {
	locs, err := e.child(sel).All()
	if err != nil {
		return nil, classify(err)
	}
	out := make([]Element, len(locs))
	for i, l := range locs {
		out[i] = &locatorElement{loc: l}
	}
	return out, nil
}

func (e *locatorElement) Find(sel Selector) (Element, error) {
	loc := e.child(sel).First()
	count, err := loc.Count()
	if err != nil {
		return nil, classify(err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sel)
	}
	return &locatorElement{loc: loc}, nil
}

func (e *locatorElement) Text() (string, error) {
	text, err := e.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: millis(fieldTimeout)})
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

func (e *locatorElement) Attr(name string) (string, error) {
	val, err := e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: millis(fieldTimeout)})
	if err != nil {
		return "", classify(err)
	}
	return val, nil
}

func (e *locatorElement) child(sel Selector) playwright.Locator {
	opts := playwright.LocatorLocatorOptions{}
	if re := hasTextPattern(sel); re != nil {
		opts.HasText = re
	}
	return e.loc.Locator(sel.CSS, opts)
}

func hasTextPattern(sel Selector) *regexp.Regexp {
	if len(sel.HasText) == 0 {
		return nil
	}
	quoted := make([]string, len(sel.HasText))
	for i, t := range sel.HasText {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// classify maps Playwright failures onto the package sentinels.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, playwright.ErrTimeout):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case strings.Contains(err.Error(), "not attached to the DOM"):
		return fmt.Errorf("%w: %v", ErrStale, err)
	}
	return err
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// languageOf turns "es-ES" into "es".
func languageOf(locale string) string {
	lang, _, _ := strings.Cut(locale, "-")
	return lang
}
