// Package urlutil provides URL helpers for classifying and resolving media links
// scraped from pages.
package urlutil

import (
	"net/url"
	"strings"
)

// Host returns the lower-cased host of rawURL without port, or "" when the
// input has no parseable host. Scheme-less input such as "youtu.be/abc" is
// parsed as if it were https.
func Host(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// IsAbsoluteHTTP reports whether u is an absolute http(s) URL.
func IsAbsoluteHTTP(u string) bool {
	lower := strings.ToLower(strings.TrimSpace(u))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsBlob reports whether u is a page-local blob reference, which is useless
// outside the page that created it.
func IsBlob(u string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(u)), "blob:")
}

// ResolveURL resolves a potentially relative URL against a base URL.
// Uses string manipulation to preserve original URL encoding.
// Go's url.ResolveReference re-encodes special characters which breaks
// URLs for CDNs that use parentheses, brackets, or other special chars.
func ResolveURL(urlStr string, baseURL string) string {
	if urlStr == "" || IsAbsoluteHTTP(urlStr) {
		return urlStr
	}
	// blob:, data: and other schemes are left alone.
	if ref, err := url.Parse(urlStr); err == nil && ref.Scheme != "" {
		return urlStr
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return urlStr
	}

	// Protocol-relative
	if strings.HasPrefix(urlStr, "//") {
		return parsed.Scheme + ":" + urlStr
	}

	if strings.HasPrefix(urlStr, "/") {
		return parsed.Scheme + "://" + parsed.Host + urlStr
	}

	base := baseURL
	if idx := strings.IndexAny(base, "?#"); idx > 0 {
		base = base[:idx]
	}
	if lastSlash := strings.LastIndex(base, "/"); lastSlash > len(parsed.Scheme)+2 {
		base = base[:lastSlash+1]
	} else {
		base += "/"
	}
	return base + urlStr
}
