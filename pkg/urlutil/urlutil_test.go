package urlutil

import "testing"

func TestHost(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "full URL", in: "https://www.YouTube.com/watch?v=abc", want: "www.youtube.com"},
		{name: "with port", in: "http://localhost:8080/x", want: "localhost"},
		{name: "scheme-less", in: "youtu.be/dQw4w9WgXcQ", want: "youtu.be"},
		{name: "protocol-relative", in: "//pin.it/abc", want: "pin.it"},
		{name: "empty", in: "   ", want: ""},
		{name: "garbage", in: "%%%", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Host(tt.in); got != tt.want {
				t.Errorf("Host(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsAbsoluteHTTPAndBlob(t *testing.T) {
	if !IsAbsoluteHTTP("https://v16.tiktokcdn.com/video.mp4") {
		t.Error("expected https URL to be absolute")
	}
	if IsAbsoluteHTTP("/video.mp4") {
		t.Error("expected path to not be absolute")
	}
	if IsAbsoluteHTTP("blob:https://www.tiktok.com/1234") {
		t.Error("expected blob URL to not be absolute http")
	}
	if !IsBlob("blob:https://www.tiktok.com/1234") {
		t.Error("expected blob URL to be detected")
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name    string
		urlStr  string
		baseURL string
		want    string
	}{
		{
			name:    "absolute URL unchanged",
			urlStr:  "https://i.pinimg.com/736x/a.jpg",
			baseURL: "https://www.pinterest.com/pin/1/",
			want:    "https://i.pinimg.com/736x/a.jpg",
		},
		{
			name:    "blob reference unchanged",
			urlStr:  "blob:https://www.tiktok.com/5f1c",
			baseURL: "https://www.tiktok.com/@u/video/1",
			want:    "blob:https://www.tiktok.com/5f1c",
		},
		{
			name:    "protocol-relative",
			urlStr:  "//i.pinimg.com/a.jpg",
			baseURL: "https://www.pinterest.com/pin/1/",
			want:    "https://i.pinimg.com/a.jpg",
		},
		{
			name:    "absolute path",
			urlStr:  "/images/og.jpg",
			baseURL: "https://www.facebook.com/watch/?v=1",
			want:    "https://www.facebook.com/images/og.jpg",
		},
		{
			name:    "relative path",
			urlStr:  "thumb(1).jpg",
			baseURL: "https://cdn.example.com/stream/page.html?x=1",
			want:    "https://cdn.example.com/stream/thumb(1).jpg",
		},
		{
			name:    "relative against bare host",
			urlStr:  "thumb.jpg",
			baseURL: "https://cdn.example.com",
			want:    "https://cdn.example.com/thumb.jpg",
		},
		{
			name:    "empty stays empty",
			urlStr:  "",
			baseURL: "https://cdn.example.com/",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveURL(tt.urlStr, tt.baseURL)
			if got != tt.want {
				t.Errorf("ResolveURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
