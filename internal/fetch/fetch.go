// Package fetch imports job descriptions from posting URLs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/devapply/devapply/internal/logger"
)

// DefaultTimeout bounds a single fetch, browser rendering included.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (compatible; DevApply/1.0)"

// maxBodyBytes caps how much of a posting page is read.
const maxBodyBytes = 5 << 20

// Page is a fetched posting page and the text extracted from it.
type Page struct {
	URL        string
	HTML       string
	Text       string
	StatusCode int
	Platform   Platform
	Rendered   bool
}

// Error is a failed fetch of URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// UseBrowser enables headless rendering when the static page yields
	// less than MinTextLength characters of text.
	UseBrowser    bool
	MinTextLength int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Timeout:       DefaultTimeout,
		UserAgent:     DefaultUserAgent,
		MinTextLength: MinContentLength,
	}
}

// RenderFunc returns the HTML of url after client-side rendering.
type RenderFunc func(ctx context.Context, url string, timeout time.Duration) (string, error)

// Fetcher downloads job postings and extracts their description text.
type Fetcher struct {
	client *http.Client
	opts   Options
	render RenderFunc
	log    *logger.Logger
}

// New builds a Fetcher. Zero-valued options fall back to DefaultOptions.
func New(opts Options, log *logger.Logger) *Fetcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = def.MinTextLength
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		render: RenderWithBrowser,
		log:    log,
	}
}

// JobDescription fetches rawURL and returns the posting's main text.
func (f *Fetcher) JobDescription(ctx context.Context, rawURL string) (*Page, error) {
	page, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	page.Platform = DetectPlatform(rawURL)

	page.Text, err = ExtractMainText(page.HTML, page.Platform.ContentSelectors(), page.Platform.NoiseSelectors()...)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to extract text", Cause: err}
	}

	if f.opts.UseBrowser && tooShort(page.Text, f.opts.MinTextLength) {
		f.log.Debug("static page too short, rendering in browser", "url", rawURL, "chars", len(page.Text))
		html, err := f.render(ctx, rawURL, f.opts.Timeout)
		if err != nil {
			f.log.Warn("browser rendering failed", "url", rawURL, "error", err)
		} else if text, err := ExtractMainText(html, page.Platform.ContentSelectors(), page.Platform.NoiseSelectors()...); err == nil && len(text) > len(page.Text) {
			page.HTML, page.Text, page.Rendered = html, text, true
		}
	}

	if strings.TrimSpace(page.Text) == "" {
		return nil, &Error{URL: rawURL, Message: "no description text found"}
	}
	return page, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	return &Page{URL: rawURL, HTML: string(body), StatusCode: resp.StatusCode}, nil
}

// ExtractMainText strips page chrome and noiseSelectors, then returns the text
// of the first element matching contentSelectors, or of body when none match.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, svg, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	return cleanWhitespace(content.Text()), nil
}

// JobPostingSelectors are content selectors for unrecognized job boards.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		"#job-description",
		".job-content",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"[itemprop='description']",
		"main",
		"article",
		"#content",
	}
}

func tooShort(text string, min int) bool {
	return len(strings.TrimSpace(text)) < min
}

func cleanWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
