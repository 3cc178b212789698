// Package extractors provides the per-platform rules that recover a direct media
// URL from a loaded page.
//
// To add a new platform rule:
// 1. Create a new file (e.g., myplatform.go)
// 2. Implement the interfaces.ExtractionRule interface
// 3. Add it to DefaultRules
package extractors

import (
	"context"
	"time"

	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/types"
	"media-resolver-go/pkg/urlutil"
)

const (
	selectorVideo       = "video"
	selectorVideoSource = "video source"
	selectorOGImage     = `meta[property="og:image"]`
)

// DefaultRules returns a rule for every scraped platform.
func DefaultRules(waitTimeout time.Duration, log *logging.Logger) []interfaces.ExtractionRule {
	return []interfaces.ExtractionRule{
		NewTikTokRule(waitTimeout, log),
		NewFacebookRule(waitTimeout, log),
		NewInstagramRule(waitTimeout, log),
		NewPinterestRule(log),
	}
}

// ExtractPageMeta reads the title and og:image of a loaded page.
// Missing fields come back empty; nothing here is fatal.
func ExtractPageMeta(ctx context.Context, page interfaces.Session) types.PageMeta {
	meta := types.PageMeta{URL: page.URL()}

	if title, err := page.Title(ctx); err == nil {
		meta.Title = title
	}
	if img, err := page.Attribute(ctx, selectorOGImage, "content"); err == nil && img != "" {
		meta.Thumbnail = urlutil.ResolveURL(img, meta.URL)
	}
	return meta
}

// baseRule carries what every rule needs to probe a page.
type baseRule struct {
	waitTimeout time.Duration
	log         *logging.Logger
}

// waitForVideo waits up to the rule's timeout for a <video> element and returns its source.
func (b *baseRule) waitForVideo(ctx context.Context, page interfaces.Session) string {
	if err := page.WaitFor(ctx, selectorVideo, b.waitTimeout); err != nil {
		b.log.Debug("no video element", "heuristic", "video-wait", "error", err)
		return ""
	}
	return b.videoSource(ctx, page)
}

// videoSource returns the src of the first <video>, or of its first <source> child.
func (b *baseRule) videoSource(ctx context.Context, page interfaces.Session) string {
	if src, err := page.Attribute(ctx, selectorVideo, "src"); err == nil && src != "" {
		return src
	}
	if src, err := page.Attribute(ctx, selectorVideoSource, "src"); err == nil && src != "" {
		return src
	}
	return ""
}
