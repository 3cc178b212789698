// Package browser provides page-session backends for the browser-automation strategy:
// a headless Chrome driven through go-rod, and static sessions that parse fetched
// HTML with goquery for environments without a browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/types"
	"media-resolver-go/pkg/urlutil"
)

// errNoDocument is returned by probes called before a successful Navigate.
var errNoDocument = errors.New("no document loaded")

// StaticLauncher starts sessions that fetch pages through a PageFetcher and
// inspect them without running scripts.
type StaticLauncher struct {
	name    string
	fetcher interfaces.PageFetcher
}

// NewStaticLauncher creates a launcher named name backed by fetcher.
func NewStaticLauncher(name string, fetcher interfaces.PageFetcher) *StaticLauncher {
	return &StaticLauncher{name: name, fetcher: fetcher}
}

// Name returns the backend name.
func (l *StaticLauncher) Name() string {
	return l.name
}

// Launch returns a new, empty static session.
func (l *StaticLauncher) Launch(ctx context.Context) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewStaticSession(l.fetcher), nil
}

// StaticSession is a page session over a parsed HTML document.
// Elements are never added after load, so WaitFor only checks presence.
type StaticSession struct {
	fetcher   interfaces.PageFetcher
	userAgent string
	url       string
	doc       *goquery.Document

	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

// NewStaticSession creates a session that loads pages through fetcher.
func NewStaticSession(fetcher interfaces.PageFetcher) *StaticSession {
	return &StaticSession{fetcher: fetcher}
}

// SetUserAgent sets the user agent sent with the next fetch.
func (s *StaticSession) SetUserAgent(userAgent string) error {
	s.userAgent = userAgent
	return nil
}

// Navigate fetches url and parses it into a document.
func (s *StaticSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if s.isClosed() {
		return errors.New("session closed")
	}

	nctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, finalURL, err := s.fetcher.FetchHTML(nctx, url, s.userAgent)
	if err != nil {
		if nctx.Err() != nil {
			return fmt.Errorf("navigation timed out after %s: %w", timeout, err)
		}
		return err
	}

	return s.load(finalURL, html)
}

func (s *StaticSession) load(pageURL, html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}
	s.doc = doc
	s.url = pageURL
	return nil
}

// URL returns the URL of the loaded document.
func (s *StaticSession) URL() string {
	return s.url
}

// Title returns the text of the first <title> element.
func (s *StaticSession) Title(ctx context.Context) (string, error) {
	if s.doc == nil {
		return "", errNoDocument
	}
	sel := s.doc.Find("title").First()
	if sel.Length() == 0 {
		return "", types.ErrElementNotFound
	}
	return strings.TrimSpace(sel.Text()), nil
}

// Attribute returns an attribute of the first element matching selector.
// src and href are resolved against the page URL like their DOM properties.
func (s *StaticSession) Attribute(ctx context.Context, selector, name string) (string, error) {
	if s.doc == nil {
		return "", errNoDocument
	}
	sel := s.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", types.ErrElementNotFound
	}
	val, ok := sel.Attr(name)
	if !ok {
		return "", types.ErrElementNotFound
	}
	val = strings.TrimSpace(val)
	if name == "src" || name == "href" {
		val = urlutil.ResolveURL(val, s.url)
	}
	return val, nil
}

// Text returns the text content of the first element matching selector.
func (s *StaticSession) Text(ctx context.Context, selector string) (string, error) {
	if s.doc == nil {
		return "", errNoDocument
	}
	sel := s.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", types.ErrElementNotFound
	}
	return sel.Text(), nil
}

// WaitFor reports whether selector is present in the loaded document.
func (s *StaticSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if s.doc == nil {
		return errNoDocument
	}
	if s.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %s", types.ErrElementNotFound, selector)
	}
	return nil
}

// Close drops the document. Later calls are no-ops.
func (s *StaticSession) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.doc = nil
		s.mu.Unlock()
	})
	return nil
}

func (s *StaticSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var (
	_ interfaces.Launcher = (*StaticLauncher)(nil)
	_ interfaces.Session  = (*StaticSession)(nil)
)
