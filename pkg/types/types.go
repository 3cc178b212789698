// Package types defines core domain types used throughout the application.
package types

// Platform identifies which supported site a URL belongs to.
type Platform string

const (
	// PlatformYouTube is the video-hosting site resolved through its metadata API.
	PlatformYouTube Platform = "youtube"
	// PlatformTikTok is the video-first short-form platform.
	PlatformTikTok Platform = "tiktok"
	// PlatformFacebook is the second short-form/social platform.
	PlatformFacebook Platform = "facebook"
	// PlatformInstagram is the social network.
	PlatformInstagram Platform = "instagram"
	// PlatformPinterest is the visual-discovery platform.
	PlatformPinterest Platform = "pinterest"
	// PlatformUnsupported is returned for anything the classifier does not recognize.
	PlatformUnsupported Platform = "unsupported"
)

// SupportedPlatforms lists every platform the resolver can handle, in display order.
var SupportedPlatforms = []Platform{
	PlatformYouTube,
	PlatformTikTok,
	PlatformFacebook,
	PlatformInstagram,
	PlatformPinterest,
}

// String returns the wire name of the platform.
func (p Platform) String() string {
	return string(p)
}

// IsSupported reports whether p is anything other than PlatformUnsupported.
func (p Platform) IsSupported() bool {
	for _, s := range SupportedPlatforms {
		if p == s {
			return true
		}
	}
	return false
}

// SizeUnknown is the size label used when the byte size cannot be known before fetching.
const SizeUnknown = "Auto"

// ResolutionRequest is the inbound request to resolve a URL.
type ResolutionRequest struct {
	RawURL string `json:"url"`
}

// MediaAsset is one retrievable rendition of the media.
type MediaAsset struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Size     string `json:"size"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type,omitempty"`
}

// RawMediaInfo is what a resolution strategy produces before normalization.
type RawMediaInfo struct {
	Title     string
	Thumbnail string
	Formats   []MediaAsset
}

// MediaInfoResult is the normalized response for one resolution.
type MediaInfoResult struct {
	Platform  Platform     `json:"platform"`
	Title     string       `json:"title"`
	Thumbnail string       `json:"thumbnail"`
	Formats   []MediaAsset `json:"formats"`
}

// PageMeta holds the fields every scraped page offers regardless of platform.
type PageMeta struct {
	URL       string
	Title     string
	Thumbnail string
}
