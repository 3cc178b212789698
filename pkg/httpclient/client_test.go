package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"media-resolver-go/pkg/config"
	"media-resolver-go/pkg/logging"
)

func TestGetClientForURL(t *testing.T) {
	log := logging.Discard()

	tests := []struct {
		name          string
		cfg           *config.Config
		targetURL     string
		expectDefault bool
		expectUTLS    bool
	}{
		{
			name: "uses global proxy when no transport routes match",
			cfg: &config.Config{
				GlobalProxies: []string{"socks5://proxy.example.com:1080"},
			},
			targetURL: "https://www.tiktok.com/@user/video/1",
		},
		{
			name: "uses transport route when URL matches",
			cfg: &config.Config{
				GlobalProxies: []string{"socks5://global-proxy.example.com:1080"},
				TransportRoutes: []config.TransportRoute{
					{
						URLPattern: "googlevideo.com",
						Proxy:      "socks5://specific-proxy.example.com:1080",
					},
				},
			},
			targetURL: "https://rr1.googlevideo.com/videoplayback",
		},
		{
			name:          "uses default client when no proxy configured",
			cfg:           &config.Config{},
			targetURL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expectDefault: true,
		},
		{
			name: "uses utls client for protected hosts",
			cfg: &config.Config{
				UTLSDomains: []string{"tiktok.com"},
			},
			targetURL:  "https://www.tiktok.com/@user/video/1",
			expectUTLS: true,
		},
		{
			name: "direct route bypasses global proxy",
			cfg: &config.Config{
				GlobalProxies: []string{"socks5://global-proxy.example.com:1080"},
				TransportRoutes: []config.TransportRoute{
					{URLPattern: "pinimg.com", Direct: true},
				},
			},
			targetURL:     "https://i.pinimg.com/736x/a.jpg",
			expectDefault: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(tt.cfg, log)
			httpClient := client.getClientForURL(tt.targetURL)

			isDefault := httpClient == client.defaultClient
			isUTLS := httpClient == client.utlsClient

			if tt.expectDefault != isDefault {
				t.Errorf("default client = %v, want %v", isDefault, tt.expectDefault)
			}
			if tt.expectUTLS != isUTLS {
				t.Errorf("utls client = %v, want %v", isUTLS, tt.expectUTLS)
			}
		})
	}
}

func TestGetOrCreateProxyClient_Caches(t *testing.T) {
	client := New(&config.Config{}, logging.Discard())

	a := client.getOrCreateProxyClient("http://proxy.example.com:3128", false)
	b := client.getOrCreateProxyClient("http://proxy.example.com:3128", false)
	if a != b {
		t.Error("expected cached proxy client to be reused")
	}
	if c := client.getOrCreateProxyClient("ftp://proxy.example.com", false); c != client.defaultClient {
		t.Error("expected default client for unsupported proxy scheme")
	}
}

func TestFetchHTML(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/short":
			http.Redirect(w, r, "/pin/1", http.StatusFound)
		case "/pin/1":
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><head><title>Pin</title></head></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(&config.Config{}, logging.Discard())

	html, finalURL, err := client.FetchHTML(context.Background(), server.URL+"/short", "TestAgent/1.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<title>Pin</title>") {
		t.Errorf("unexpected body %q", html)
	}
	if finalURL != server.URL+"/pin/1" {
		t.Errorf("final URL = %q, want redirect target", finalURL)
	}
	if gotUA != "TestAgent/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if _, _, err := client.FetchHTML(context.Background(), server.URL+"/missing", ""); err == nil {
		t.Error("expected error for 404 page")
	}
}

func TestStdClient_RoutesThroughClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(&config.Config{}, logging.Discard())
	std := client.StdClient(5 * time.Second)

	resp, err := std.Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
