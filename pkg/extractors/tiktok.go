package extractors

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/types"
	"media-resolver-go/pkg/urlutil"
)

// Hydration state the TikTok web client injects into the page. Both layouts are
// undocumented and change without notice, so they are only consulted when the
// <video> element does not carry a usable URL.
const (
	sigiStateSelector     = "script#SIGI_STATE"
	universalDataSelector = "script#__UNIVERSAL_DATA_FOR_REHYDRATION__"

	universalPlayAddrPath = `__DEFAULT_SCOPE__.webapp\.video-detail.itemInfo.itemStruct.video.playAddr`
)

// TikTokRule reads the player's source, falling back to the hydration state
// when the player only exposes a blob URL.
type TikTokRule struct {
	baseRule
}

// NewTikTokRule creates the TikTok rule.
func NewTikTokRule(waitTimeout time.Duration, log *logging.Logger) *TikTokRule {
	return &TikTokRule{baseRule{
		waitTimeout: waitTimeout,
		log:         log.WithComponent("tiktok-rule"),
	}}
}

// Platform returns PlatformTikTok.
func (r *TikTokRule) Platform() types.Platform {
	return types.PlatformTikTok
}

// Extract returns the play address of the video on the page.
func (r *TikTokRule) Extract(ctx context.Context, page interfaces.Session, meta types.PageMeta) (string, bool) {
	src := r.waitForVideo(ctx, page)
	if urlutil.IsAbsoluteHTTP(src) {
		return src, true
	}

	if addr := r.sigiPlayAddr(ctx, page); addr != "" {
		return addr, true
	}
	if addr := r.universalPlayAddr(ctx, page); addr != "" {
		return addr, true
	}

	r.log.Debug("no play address found", "url", meta.URL, "blob", urlutil.IsBlob(src))
	return "", false
}

// sigiPlayAddr returns ItemModule.<first item>.video.playAddr from SIGI_STATE.
func (r *TikTokRule) sigiPlayAddr(ctx context.Context, page interfaces.Session) string {
	raw, ok := r.scriptJSON(ctx, page, sigiStateSelector)
	if !ok {
		return ""
	}

	items := gjson.Get(raw, "ItemModule")
	if !items.IsObject() {
		r.log.Debug("hydration state has no ItemModule", "heuristic", "sigi-state")
		return ""
	}

	var addr string
	items.ForEach(func(_, item gjson.Result) bool {
		addr = item.Get("video.playAddr").String()
		return false
	})
	if !urlutil.IsAbsoluteHTTP(addr) {
		return ""
	}
	return addr
}

func (r *TikTokRule) universalPlayAddr(ctx context.Context, page interfaces.Session) string {
	raw, ok := r.scriptJSON(ctx, page, universalDataSelector)
	if !ok {
		return ""
	}

	addr := gjson.Get(raw, universalPlayAddrPath).String()
	if !urlutil.IsAbsoluteHTTP(addr) {
		return ""
	}
	return addr
}

func (r *TikTokRule) scriptJSON(ctx context.Context, page interfaces.Session, selector string) (string, bool) {
	raw, err := page.Text(ctx, selector)
	if err != nil {
		r.log.Debug("hydration script missing", "heuristic", selector, "error", err)
		return "", false
	}
	if !gjson.Valid(raw) {
		r.log.Debug("hydration script is not valid JSON", "heuristic", selector)
		return "", false
	}
	return raw, true
}
