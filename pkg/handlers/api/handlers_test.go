package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"

	"media-resolver-go/pkg/appctx"
	"media-resolver-go/pkg/browser/browsertest"
	"media-resolver-go/pkg/config"
	"media-resolver-go/pkg/extractors"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/registry"
	"media-resolver-go/pkg/services"
	"media-resolver-go/pkg/strategies"
	"media-resolver-go/pkg/types"
)

const (
	pinURL    = "https://www.pinterest.com/pin/987/"
	tiktokURL = "https://www.tiktok.com/@someone/video/7311111111111111111"
)

type stubYouTube struct {
	video *youtube.Video
	err   error
}

func (s *stubYouTube) GetVideoContext(ctx context.Context, id string) (*youtube.Video, error) {
	return s.video, s.err
}

func (s *stubYouTube) GetStreamURLContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error) {
	return "", errors.New("not ciphered in tests")
}

func newTestMux(t *testing.T, yt *stubYouTube) (*http.ServeMux, *browsertest.Launcher) {
	t.Helper()
	log := logging.Discard()

	launcher := browsertest.New(map[string]string{
		pinURL: `<html><head><title>Reading nook</title>
<meta property="og:image" content="https://i.pinimg.com/originals/nook.jpg"></head><body></body></html>`,
		tiktokURL: `<html><head><title>TikTok</title></head><body><div id="app"></div></body></html>`,
	})

	rules := registry.NewRuleRegistry()
	for _, r := range extractors.DefaultRules(10*time.Millisecond, log) {
		rules.Register(r)
	}

	reg := registry.NewStrategyRegistry()
	reg.Route(types.PlatformYouTube, strategies.NewYouTubeStrategy(yt, false, log))
	reg.SetFallback(strategies.NewBrowserStrategy(launcher, rules, strategies.BrowserOptions{
		UserAgent:         config.DefaultUserAgent,
		NavigationTimeout: time.Second,
		MaxSessions:       2,
	}, log))

	actx := appctx.New(&config.Config{}, log).
		WithResolver(services.NewResolverService(log, reg, 5*time.Second), launcher.Name())

	mux := http.NewServeMux()
	NewHandlers(actx).RegisterRoutes(mux)
	return mux, launcher
}

func postInfo(mux http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/download/info", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestDownloadInfo_Unsupported(t *testing.T) {
	mux, launcher := newTestMux(t, &stubYouTube{})

	w := postInfo(mux, `{"url":"https://example.com/video.mp4"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := decodeError(t, w); msg != "Unsupported platform" {
		t.Errorf("error = %q", msg)
	}
	if launcher.Launched() != 0 {
		t.Error("no browser session should start for unsupported URLs")
	}
}

func TestDownloadInfo_BadRequests(t *testing.T) {
	mux, _ := newTestMux(t, &stubYouTube{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"url":`},
		{"missing url", `{}`},
		{"blank url", `{"url":"   "}`},
		{"oversized body", `{"url":"https://pin.it/` + strings.Repeat("a", 20<<10) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postInfo(mux, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if msg := decodeError(t, w); msg == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestDownloadInfo_TikTokExtractionFailure(t *testing.T) {
	mux, launcher := newTestMux(t, &stubYouTube{})

	w := postInfo(mux, `{"url":"`+tiktokURL+`"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if msg := decodeError(t, w); !strings.Contains(msg, "Could not extract media from tiktok") {
		t.Errorf("error = %q", msg)
	}
	if launcher.Closed() != 1 {
		t.Errorf("session closed %d times, want 1", launcher.Closed())
	}
}

func TestDownloadInfo_PinterestImagePin(t *testing.T) {
	mux, launcher := newTestMux(t, &stubYouTube{})

	w := postInfo(mux, `{"url":"`+pinURL+`"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var result types.MediaInfoResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Platform != types.PlatformPinterest || result.Title != "Reading nook" {
		t.Errorf("result = %+v", result)
	}
	want := types.MediaAsset{ID: "default", Label: "High Quality", Size: "Auto", URL: "https://i.pinimg.com/originals/nook.jpg"}
	if len(result.Formats) != 1 || result.Formats[0] != want {
		t.Errorf("formats = %+v, want [%+v]", result.Formats, want)
	}
	if launcher.Closed() != 1 {
		t.Errorf("session closed %d times, want 1", launcher.Closed())
	}
}

func TestDownloadInfo_YouTube(t *testing.T) {
	yt := &stubYouTube{video: &youtube.Video{
		Title:      "Clip",
		Thumbnails: youtube.Thumbnails{{URL: "https://i.ytimg.com/vi/x/hq.jpg", Width: 480}},
		Formats: youtube.FormatList{
			{ItagNo: 22, URL: "https://rr2.googlevideo.com/videoplayback?itag=22", MimeType: `video/mp4; codecs="avc1"`, QualityLabel: "720p", Width: 1280},
			{ItagNo: 251, URL: "https://rr2.googlevideo.com/videoplayback?itag=251", MimeType: `audio/webm; codecs="opus"`},
		},
	}}
	mux, launcher := newTestMux(t, yt)

	w := postInfo(mux, `{"url":"https://youtu.be/dQw4w9WgXcQ"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"platform", "title", "thumbnail", "formats"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}

	var formats []map[string]string
	json.Unmarshal(raw["formats"], &formats)
	if len(formats) != 1 {
		t.Fatalf("formats = %v, want only the video variant", formats)
	}
	if formats[0]["id"] != "22" || formats[0]["label"] != "720p (mp4)" || formats[0]["size"] != "Auto" || formats[0]["url"] == "" {
		t.Errorf("format = %v", formats[0])
	}
	if launcher.Launched() != 0 {
		t.Error("youtube must not use the browser")
	}
}

func TestDownloadInfo_YouTubeUpstreamError(t *testing.T) {
	mux, _ := newTestMux(t, &stubYouTube{err: errors.New("this video is private")})

	w := postInfo(mux, `{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if msg := decodeError(t, w); msg != "this video is private" {
		t.Errorf("error = %q, want upstream message", msg)
	}
}

func TestDownloadInfo_InvalidYouTubeURL(t *testing.T) {
	mux, _ := newTestMux(t, &stubYouTube{})

	w := postInfo(mux, `{"url":"https://www.youtube.com/feed/subscriptions"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if msg := decodeError(t, w); msg != "Invalid youtube link" {
		t.Errorf("error = %q, want generic invalid link message", msg)
	}
}

func TestDownloadInfo_NavigationFailureHidesDetail(t *testing.T) {
	mux, launcher := newTestMux(t, &stubYouTube{})

	w := postInfo(mux, `{"url":"https://www.instagram.com/reel/unknown/"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	msg := decodeError(t, w)
	if msg != "Could not load the instagram page. Please try again later." {
		t.Errorf("error = %q", msg)
	}
	if strings.Contains(msg, "navigate") {
		t.Errorf("error leaks the failing stage: %q", msg)
	}
	if launcher.Closed() != 1 {
		t.Errorf("closed = %d, want 1", launcher.Closed())
	}
}

func TestHealthAndInfo(t *testing.T) {
	mux, _ := newTestMux(t, &stubYouTube{})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/info", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("api/info status = %d", w.Code)
	}

	var info struct {
		Status    string   `json:"status"`
		Backend   string   `json:"backend"`
		Platforms []string `json:"platforms"`
	}
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Status != "running" || info.Backend != "test" || len(info.Platforms) != len(types.SupportedPlatforms) {
		t.Errorf("info = %+v", info)
	}
}

func TestDownloadInfo_MethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t, &stubYouTube{})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/download/info", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
