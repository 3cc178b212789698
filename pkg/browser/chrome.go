package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/types"
)

// ChromeOptions configures how Chrome sessions are started.
type ChromeOptions struct {
	// Bin is the Chrome binary. Empty lets the launcher find or download one.
	Bin string
	// WSURL connects to an already running browser (e.g. browserless) instead of launching.
	WSURL string
	// NoSandbox disables the Chrome sandbox; needed in most containers.
	NoSandbox bool
}

// ChromeLauncher starts one headless Chrome per session. With a WSURL it
// instead shares one connection to the remote browser and gives each session
// its own incognito browser context.
type ChromeLauncher struct {
	opts ChromeOptions
	log  *logging.Logger

	mu     sync.Mutex
	remote *rod.Browser
}

// NewChromeLauncher creates a Chrome launcher.
func NewChromeLauncher(opts ChromeOptions, log *logging.Logger) *ChromeLauncher {
	return &ChromeLauncher{
		opts: opts,
		log:  log.WithComponent("chrome"),
	}
}

// Name returns the backend name.
func (l *ChromeLauncher) Name() string {
	return "chrome"
}

// Launch opens one blank page in an isolated browser: a fresh local process,
// or a fresh incognito context on the remote browser.
func (l *ChromeLauncher) Launch(ctx context.Context) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.opts.WSURL != "" {
		return l.launchRemote()
	}
	return l.launchLocal(ctx)
}

func (l *ChromeLauncher) launchLocal(ctx context.Context) (interfaces.Session, error) {
	ln := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(l.opts.NoSandbox).
		Leakless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-background-timer-throttling").
		Set("mute-audio")
	if l.opts.Bin != "" {
		ln = ln.Bin(l.opts.Bin)
	}

	u, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killLauncher(ln)
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		killLauncher(ln)
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	l.log.Debug("browser session started", "remote", false)
	return newChromeSession(page, page, browser, func() { killLauncher(ln) }, l.log), nil
}

func (l *ChromeLauncher) launchRemote() (interfaces.Session, error) {
	root, err := l.remoteBrowser()
	if err != nil {
		return nil, err
	}

	incognito, err := root.Incognito()
	if err != nil {
		l.dropRemote(root)
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	l.log.Debug("browser session started", "remote", true)
	return newChromeSession(page, page, incognito, nil, l.log), nil
}

// remoteBrowser returns the shared connection to WSURL, dialing it on first use.
func (l *ChromeLauncher) remoteBrowser() (*rod.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.remote != nil {
		return l.remote, nil
	}

	b := rod.New().ControlURL(l.opts.WSURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	l.remote = b
	return b, nil
}

// dropRemote forgets a connection that stopped answering so the next Launch redials.
func (l *ChromeLauncher) dropRemote(b *rod.Browser) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.remote == b {
		l.remote = nil
	}
}

func killLauncher(ln *launcher.Launcher) {
	ln.Kill()
	ln.Cleanup()
}

type closer interface {
	Close() error
}

// chromeSession is one page in a browser scope it owns. The scope is the
// whole local browser, or only an incognito context on a remote browser, and
// is the widest thing Close tears down.
type chromeSession struct {
	page    *rod.Page
	target  closer
	scope   closer
	release func()
	log     *logging.Logger
	url     string

	closeOnce sync.Once
	closeErr  error
}

func newChromeSession(page *rod.Page, target, scope closer, release func(), log *logging.Logger) *chromeSession {
	return &chromeSession{
		page:    page,
		target:  target,
		scope:   scope,
		release: release,
		log:     log,
	}
}

func (s *chromeSession) SetUserAgent(userAgent string) error {
	return s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: userAgent,
	})
}

// Navigate loads url and waits for DOMContentLoaded, not network idle.
func (s *chromeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	nctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := s.page.Context(nctx)
	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	wait()

	if err := nctx.Err(); err != nil {
		return fmt.Errorf("waiting for DOMContentLoaded after %s: %w", timeout, err)
	}

	s.url = url
	if info, err := s.page.Context(ctx).Info(); err == nil {
		s.url = info.URL
	}
	return nil
}

func (s *chromeSession) URL() string {
	return s.url
}

func (s *chromeSession) Title(ctx context.Context) (string, error) {
	return s.evalString(ctx, `() => document.title`)
}

// Attribute prefers the DOM property so src/href come back absolute, and falls
// back to the raw attribute for names without a matching property.
func (s *chromeSession) Attribute(ctx context.Context, selector, name string) (string, error) {
	return s.evalString(ctx, `(sel, name) => {
		const el = document.querySelector(sel);
		if (!el) return null;
		const v = el[name];
		if (typeof v === 'string' && v !== '') return v;
		return el.getAttribute(name);
	}`, selector, name)
}

func (s *chromeSession) Text(ctx context.Context, selector string) (string, error) {
	return s.evalString(ctx, `(sel) => {
		const el = document.querySelector(sel);
		return el ? el.textContent : null;
	}`, selector)
}

func (s *chromeSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := s.page.Context(wctx).Element(selector); err != nil {
		if wctx.Err() != nil {
			return fmt.Errorf("%w: %s not present after %s", types.ErrElementNotFound, selector, timeout)
		}
		return err
	}
	return nil
}

// Close closes the page, then its scope, then the local process if there is
// one. It is idempotent; teardown happens on the first call only.
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		_ = s.target.Close()
		s.closeErr = s.scope.Close()
		if s.release != nil {
			s.release()
		}
		s.log.Debug("browser session closed")
	})
	return s.closeErr
}

func (s *chromeSession) evalString(ctx context.Context, js string, args ...interface{}) (string, error) {
	obj, err := s.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return "", err
	}
	if obj.Value.Nil() {
		return "", types.ErrElementNotFound
	}
	return obj.Value.Str(), nil
}

var (
	_ interfaces.Launcher = (*ChromeLauncher)(nil)
	_ interfaces.Session  = (*chromeSession)(nil)
)
