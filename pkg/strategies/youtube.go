// Package strategies provides the two ways of turning a platform URL into raw
// media info: the YouTube metadata API and browser automation.
package strategies

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"

	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/types"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Path prefixes that carry the video id as the next segment.
var idPathPrefixes = map[string]bool{
	"shorts": true,
	"embed":  true,
	"live":   true,
	"v":      true,
}

// YouTubeClient is the part of *youtube.Client the strategy uses.
type YouTubeClient interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
	GetStreamURLContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error)
}

// NewYouTubeClient creates a metadata client that sends its requests through httpClient.
func NewYouTubeClient(httpClient *http.Client) *youtube.Client {
	return &youtube.Client{HTTPClient: httpClient}
}

// YouTubeStrategy lists the video variants of a YouTube video from its player response.
type YouTubeStrategy struct {
	client          YouTubeClient
	resolveCiphered bool
	log             *logging.Logger
}

// NewYouTubeStrategy creates the structured-API strategy. With resolveCiphered set,
// variants without a ready URL are deciphered; otherwise they are dropped.
func NewYouTubeStrategy(client YouTubeClient, resolveCiphered bool, log *logging.Logger) *YouTubeStrategy {
	return &YouTubeStrategy{
		client:          client,
		resolveCiphered: resolveCiphered,
		log:             log.WithComponent("youtube"),
	}
}

// Name returns the strategy name.
func (s *YouTubeStrategy) Name() string {
	return "youtube-api"
}

// Resolve fetches the video's metadata and maps every video-bearing variant to an asset.
func (s *YouTubeStrategy) Resolve(ctx context.Context, rawURL string, platform types.Platform) (*types.RawMediaInfo, error) {
	id, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx, s.log).With("video_id", id)
	log.Debug("fetching video info")

	video, err := s.client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, &types.UpstreamFetchError{Platform: platform, Err: err}
	}

	info := &types.RawMediaInfo{
		Title:     video.Title,
		Thumbnail: widestThumbnail(video.Thumbnails),
		Formats:   make([]types.MediaAsset, 0, len(video.Formats)),
	}

	for i := range video.Formats {
		f := &video.Formats[i]
		if !hasVideo(f) {
			continue
		}

		streamURL := f.URL
		if streamURL == "" && s.resolveCiphered {
			streamURL, err = s.client.GetStreamURLContext(ctx, video, f)
			if err != nil {
				log.Debug("dropping variant", "itag", f.ItagNo, "error", err)
				continue
			}
		}

		info.Formats = append(info.Formats, types.MediaAsset{
			ID:       strconv.Itoa(f.ItagNo),
			Label:    formatLabel(f),
			Size:     formatSize(int64(f.ContentLength)),
			URL:      streamURL,
			MimeType: f.MimeType,
		})
	}

	log.Debug("video info fetched", "variants", len(video.Formats), "video_variants", len(info.Formats))
	return info, nil
}

// ExtractVideoID returns the 11-character video id of a YouTube URL. It accepts
// the v query parameter, youtu.be/<id>, and /shorts/, /embed/, /live/ paths.
func ExtractVideoID(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", &types.InvalidURLError{Platform: types.PlatformYouTube, URL: rawURL, Reason: err.Error()}
	}

	var id string
	if v := u.Query().Get("v"); v != "" {
		id = v
	} else {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		switch {
		case strings.HasSuffix(strings.ToLower(u.Hostname()), "youtu.be"):
			id = segments[0]
		case len(segments) >= 2 && idPathPrefixes[segments[0]]:
			id = segments[1]
		}
	}

	if id == "" {
		return "", &types.InvalidURLError{Platform: types.PlatformYouTube, URL: rawURL, Reason: "no video id in URL"}
	}
	if !videoIDPattern.MatchString(id) {
		return "", &types.InvalidURLError{Platform: types.PlatformYouTube, URL: rawURL, Reason: fmt.Sprintf("malformed video id %q", id)}
	}
	return id, nil
}

func hasVideo(f *youtube.Format) bool {
	return f.Width > 0 || strings.Contains(f.MimeType, "video")
}

// formatLabel renders e.g. "720p (mp4)".
func formatLabel(f *youtube.Format) string {
	quality := f.QualityLabel
	if quality == "" {
		quality = "Video"
	}
	return fmt.Sprintf("%s (%s)", quality, mimeSubtype(f.MimeType))
}

// mimeSubtype returns "webm" for `video/webm; codecs="vp9"`.
func mimeSubtype(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	_, sub, ok := strings.Cut(strings.TrimSpace(base), "/")
	if !ok || sub == "" {
		return "unknown"
	}
	return sub
}

func formatSize(contentLength int64) string {
	if contentLength <= 0 {
		return types.SizeUnknown
	}
	return fmt.Sprintf("%.1f MB", float64(contentLength)/1048576)
}

func widestThumbnail(thumbs youtube.Thumbnails) string {
	var best string
	var bestWidth uint
	for _, t := range thumbs {
		if best == "" || uint(t.Width) > bestWidth {
			best = t.URL
			bestWidth = uint(t.Width)
		}
	}
	return best
}

var _ interfaces.Strategy = (*YouTubeStrategy)(nil)
