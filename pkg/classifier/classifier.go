// Package classifier maps arbitrary input URLs to a supported platform.
package classifier

import (
	"strings"

	"media-resolver-go/pkg/types"
	"media-resolver-go/pkg/urlutil"
)

// hostPatterns lists the host substrings recognized for each platform.
// The substrings are mutually exclusive, so table order does not matter.
var hostPatterns = []struct {
	platform types.Platform
	patterns []string
}{
	{types.PlatformYouTube, []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}},
	{types.PlatformTikTok, []string{"tiktok.com"}},
	{types.PlatformFacebook, []string{"facebook.com", "fb.watch", "fb.com"}},
	{types.PlatformInstagram, []string{"instagram.com", "instagr.am"}},
	{types.PlatformPinterest, []string{"pinterest.", "pin.it"}},
}

// Classify returns the platform rawURL belongs to, or types.PlatformUnsupported.
// It never fails and has no side effects.
func Classify(rawURL string) types.Platform {
	target := urlutil.Host(rawURL)
	if target == "" {
		target = strings.ToLower(rawURL)
	}

	for _, entry := range hostPatterns {
		for _, p := range entry.patterns {
			if strings.Contains(target, p) {
				return entry.platform
			}
		}
	}
	return types.PlatformUnsupported
}

// Patterns returns the host substrings recognized for platform.
func Patterns(platform types.Platform) []string {
	for _, entry := range hostPatterns {
		if entry.platform == platform {
			out := make([]string, len(entry.patterns))
			copy(out, entry.patterns)
			return out
		}
	}
	return nil
}
