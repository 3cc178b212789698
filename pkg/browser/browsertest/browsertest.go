// Package browsertest provides an in-memory page backend for tests.
// Pages are served from a map keyed by URL and parsed with the static session,
// and the launcher counts launches, closes and concurrent sessions.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"media-resolver-go/pkg/browser"
	"media-resolver-go/pkg/interfaces"
)

// ErrPageNotFound is returned when a URL has no registered page.
var ErrPageNotFound = errors.New("page not found")

// Launcher is a fake interfaces.Launcher.
type Launcher struct {
	// LaunchErr makes every Launch fail.
	LaunchErr error
	// NavigateErr makes every Navigate fail.
	NavigateErr error
	// Delay is applied to every navigation; cancellation is honored.
	Delay time.Duration

	mu         sync.Mutex
	pages      map[string]string
	redirects  map[string]string
	userAgents []string
	launched   int
	closed     int
	active     int
	maxActive  int
}

// New creates a launcher that serves pages, keyed by URL.
func New(pages map[string]string) *Launcher {
	if pages == nil {
		pages = make(map[string]string)
	}
	return &Launcher{
		pages:     pages,
		redirects: make(map[string]string),
	}
}

// Redirect makes navigation to from end on to.
func (l *Launcher) Redirect(from, to string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.redirects[from] = to
}

// Name returns "test".
func (l *Launcher) Name() string {
	return "test"
}

// Launch opens a new fake session.
func (l *Launcher) Launch(ctx context.Context) (interfaces.Session, error) {
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}

	l.mu.Lock()
	l.launched++
	l.active++
	if l.active > l.maxActive {
		l.maxActive = l.active
	}
	l.mu.Unlock()

	return &session{
		StaticSession: browser.NewStaticSession(l),
		launcher:      l,
	}, nil
}

// FetchHTML serves a registered page.
func (l *Launcher) FetchHTML(ctx context.Context, url, userAgent string) (string, string, error) {
	l.mu.Lock()
	l.userAgents = append(l.userAgents, userAgent)
	navErr := l.NavigateErr
	delay := l.Delay
	l.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", "", ctx.Err()
		}
	}
	if navErr != nil {
		return "", "", navErr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	final := url
	if to, ok := l.redirects[url]; ok {
		final = to
	}
	html, ok := l.pages[final]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrPageNotFound, final)
	}
	return html, final, nil
}

// Launched returns how many sessions were started.
func (l *Launcher) Launched() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launched
}

// Closed returns how many times Close was called across all sessions.
func (l *Launcher) Closed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// MaxActive returns the highest number of sessions open at once.
func (l *Launcher) MaxActive() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxActive
}

// UserAgents returns the user agents seen by navigations, in order.
func (l *Launcher) UserAgents() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.userAgents...)
}

type session struct {
	*browser.StaticSession
	launcher *Launcher
	once     sync.Once
}

// Close counts every call but releases the session only once.
func (s *session) Close() error {
	s.launcher.mu.Lock()
	s.launcher.closed++
	s.launcher.mu.Unlock()

	s.once.Do(func() {
		s.launcher.mu.Lock()
		s.launcher.active--
		s.launcher.mu.Unlock()
	})
	return s.StaticSession.Close()
}

var (
	_ interfaces.Launcher    = (*Launcher)(nil)
	_ interfaces.PageFetcher = (*Launcher)(nil)
)
