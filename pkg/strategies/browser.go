package strategies

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"media-resolver-go/pkg/extractors"
	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/registry"
	"media-resolver-go/pkg/types"
)

// Asset fields for the single rendition a scraped page yields.
const (
	browserAssetID    = "default"
	browserAssetLabel = "High Quality"
)

// BrowserOptions configures the browser-automation strategy.
type BrowserOptions struct {
	UserAgent         string
	NavigationTimeout time.Duration
	MaxSessions       int
}

// BrowserStrategy loads the page in a fresh session and runs the platform's
// extraction rule on it. Sessions are capped by a semaphore and always closed.
type BrowserStrategy struct {
	launcher interfaces.Launcher
	rules    *registry.RuleRegistry
	sem      *semaphore.Weighted
	opts     BrowserOptions
	log      *logging.Logger
}

// NewBrowserStrategy creates the browser-automation strategy.
func NewBrowserStrategy(launcher interfaces.Launcher, rules *registry.RuleRegistry, opts BrowserOptions, log *logging.Logger) *BrowserStrategy {
	if opts.MaxSessions < 1 {
		opts.MaxSessions = 1
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 15 * time.Second
	}
	return &BrowserStrategy{
		launcher: launcher,
		rules:    rules,
		sem:      semaphore.NewWeighted(int64(opts.MaxSessions)),
		opts:     opts,
		log:      log.WithComponent("browser-strategy"),
	}
}

// Name returns the strategy name including its backend.
func (s *BrowserStrategy) Name() string {
	return "browser:" + s.launcher.Name()
}

// Resolve runs LAUNCH, NAVIGATE, EXTRACT and CLOSE for one URL. CLOSE runs on
// every path once a session exists, including a panicking rule.
func (s *BrowserStrategy) Resolve(ctx context.Context, url string, platform types.Platform) (*types.RawMediaInfo, error) {
	rule, ok := s.rules.Get(platform)
	if !ok {
		return nil, fmt.Errorf("no extraction rule registered for %s", platform)
	}

	log := logging.FromContext(ctx, s.log.WithPlatform(platform.String())).WithURL(url)

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, &types.NavigationError{Platform: platform, Stage: "waiting for browser slot", Err: err}
	}
	defer s.sem.Release(1)

	session, err := s.launcher.Launch(ctx)
	if err != nil {
		return nil, &types.NavigationError{Platform: platform, Stage: "launch", Err: err}
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("failed to close browser session")
		}
	}()

	if s.opts.UserAgent != "" {
		if err := session.SetUserAgent(s.opts.UserAgent); err != nil {
			log.WithError(err).Debug("failed to set user agent")
		}
	}

	start := time.Now()
	if err := session.Navigate(ctx, url, s.opts.NavigationTimeout); err != nil {
		return nil, &types.NavigationError{Platform: platform, Stage: "navigate", Err: err}
	}
	log.Debug("page loaded", "final_url", session.URL(), "duration", time.Since(start))

	meta := extractors.ExtractPageMeta(ctx, session)
	directURL, found := rule.Extract(ctx, session, meta)
	if !found || directURL == "" {
		log.Info("no direct media URL found")
		return nil, &types.ExtractionFailedError{Platform: platform}
	}

	return &types.RawMediaInfo{
		Title:     meta.Title,
		Thumbnail: meta.Thumbnail,
		Formats: []types.MediaAsset{{
			ID:    browserAssetID,
			Label: browserAssetLabel,
			Size:  types.SizeUnknown,
			URL:   directURL,
		}},
	}, nil
}

var _ interfaces.Strategy = (*BrowserStrategy)(nil)
