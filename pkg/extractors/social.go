package extractors

import (
	"context"
	"time"

	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/types"
	"media-resolver-go/pkg/urlutil"
)

// FacebookRule waits briefly for the player and returns its source.
// There is no image fallback: a reel without a video is a failure.
type FacebookRule struct {
	baseRule
}

// NewFacebookRule creates the Facebook rule.
func NewFacebookRule(waitTimeout time.Duration, log *logging.Logger) *FacebookRule {
	return &FacebookRule{baseRule{
		waitTimeout: waitTimeout,
		log:         log.WithComponent("facebook-rule"),
	}}
}

func (r *FacebookRule) Platform() types.Platform {
	return types.PlatformFacebook
}

func (r *FacebookRule) Extract(ctx context.Context, page interfaces.Session, meta types.PageMeta) (string, bool) {
	src := r.waitForVideo(ctx, page)
	if urlutil.IsAbsoluteHTTP(src) {
		return src, true
	}
	return "", false
}

// InstagramRule waits briefly for the player and falls back to the post image.
type InstagramRule struct {
	baseRule
}

// NewInstagramRule creates the Instagram rule.
func NewInstagramRule(waitTimeout time.Duration, log *logging.Logger) *InstagramRule {
	return &InstagramRule{baseRule{
		waitTimeout: waitTimeout,
		log:         log.WithComponent("instagram-rule"),
	}}
}

func (r *InstagramRule) Platform() types.Platform {
	return types.PlatformInstagram
}

func (r *InstagramRule) Extract(ctx context.Context, page interfaces.Session, meta types.PageMeta) (string, bool) {
	if src := r.waitForVideo(ctx, page); urlutil.IsAbsoluteHTTP(src) {
		return src, true
	}
	if meta.Thumbnail != "" {
		r.log.Debug("using thumbnail", "url", meta.URL)
		return meta.Thumbnail, true
	}
	return "", false
}

// PinterestRule returns the pin's video when there is one and its image otherwise.
// Pins are often plain images, so the image is a normal result.
type PinterestRule struct {
	baseRule
}

// NewPinterestRule creates the Pinterest rule. It does not wait for late video elements.
func NewPinterestRule(log *logging.Logger) *PinterestRule {
	return &PinterestRule{baseRule{
		log: log.WithComponent("pinterest-rule"),
	}}
}

func (r *PinterestRule) Platform() types.Platform {
	return types.PlatformPinterest
}

func (r *PinterestRule) Extract(ctx context.Context, page interfaces.Session, meta types.PageMeta) (string, bool) {
	if src := r.videoSource(ctx, page); urlutil.IsAbsoluteHTTP(src) {
		return src, true
	}
	if meta.Thumbnail != "" {
		return meta.Thumbnail, true
	}
	return "", false
}
