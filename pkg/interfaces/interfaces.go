// Package interfaces defines the core abstractions of the media resolver.
// Strategies, page backends and per-platform extraction rules implement these
// interfaces, so adding a platform or a backend touches a single registration point.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"media-resolver-go/pkg/types"
)

// Strategy resolves a URL of a known platform into raw media info.
//
// To add a new strategy:
// 1. Create a new file in pkg/strategies/
// 2. Implement this interface
// 3. Route platforms to it in the resolver (see internal/app)
type Strategy interface {
	// Name returns a unique identifier for this strategy.
	Name() string

	// Resolve produces raw media info for url, which is known to belong to platform.
	Resolve(ctx context.Context, url string, platform types.Platform) (*types.RawMediaInfo, error)
}

// Launcher starts page sessions. Every call produces an isolated session that
// the caller owns and must close.
type Launcher interface {
	// Name returns the backend name, e.g. "chrome" or "http".
	Name() string

	// Launch starts a session with one open page.
	Launch(ctx context.Context) (Session, error)
}

// Session is one open page in an isolated browser-like session.
//
// Probe methods return types.ErrElementNotFound when the selector matches nothing.
// Close must be safe to call more than once; only the first call releases anything.
type Session interface {
	// SetUserAgent sets the user agent used for subsequent navigation.
	SetUserAgent(userAgent string) error

	// Navigate loads url and returns once the DOM is constructed, or fails after timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// URL returns the URL of the loaded document after redirects.
	URL() string

	// Title returns the document title.
	Title(ctx context.Context) (string, error)

	// Attribute returns the value of name on the first element matching selector.
	// For live pages the DOM property is preferred so URLs come back absolute.
	Attribute(ctx context.Context, selector, name string) (string, error)

	// Text returns the text content of the first element matching selector.
	Text(ctx context.Context, selector string) (string, error)

	// WaitFor waits up to timeout for selector to match an element.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// Close releases the session.
	Close() error
}

// ExtractionRule recovers the direct media URL for one platform from a loaded page.
//
// To add a new platform rule:
// 1. Create a new file in pkg/extractors/
// 2. Implement this interface
// 3. Register it in the RuleRegistry
type ExtractionRule interface {
	// Platform returns the platform this rule handles.
	Platform() types.Platform

	// Extract returns the direct media URL and true, or "" and false when
	// nothing usable was found. Sub-heuristic failures are absorbed, never returned.
	Extract(ctx context.Context, page Session, meta types.PageMeta) (string, bool)
}

// PageFetcher returns the HTML of a URL for backends that cannot run scripts.
type PageFetcher interface {
	// FetchHTML returns the document body and the final URL after redirects.
	FetchHTML(ctx context.Context, url, userAgent string) (html string, finalURL string, err error)
}

// HTTPClient abstracts HTTP operations for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Logger defines the logging interface used throughout the application.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
