package flaresolverr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"media-resolver-go/pkg/logging"
)

func TestClient_Do_Success(t *testing.T) {
	log := logging.Discard()

	expectedResponse := Response{
		Status:  "ok",
		Message: "Success",
		Solution: Solution{
			URL:       "https://www.pinterest.com/pin/1/",
			Status:    200,
			Response:  "<html><body>Hello World</body></html>",
			UserAgent: "Mozilla/5.0 Test",
			Cookies: []Cookie{
				{Name: "cf_clearance", Value: "test-token", Domain: ".pinterest.com"},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1" {
			t.Errorf("expected path /v1, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Cmd != "request.get" {
			t.Errorf("expected cmd request.get, got %s", req.Cmd)
		}
		if req.MaxTimeout != 30000 {
			t.Errorf("expected maxTimeout 30000, got %d", req.MaxTimeout)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second, log)

	resp, err := client.do(context.Background(), Request{Cmd: "request.get", URL: "https://pin.it/abc", MaxTimeout: 30000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Solution.Response != expectedResponse.Solution.Response {
		t.Errorf("response mismatch")
	}
	if len(resp.Solution.Cookies) != 1 || resp.Solution.Cookies[0].Name != "cf_clearance" {
		t.Errorf("unexpected cookies %+v", resp.Solution.Cookies)
	}
}

func TestClient_FetchHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		if req.UserAgent != "UA/1" {
			t.Errorf("expected user agent to be forwarded, got %q", req.UserAgent)
		}
		json.NewEncoder(w).Encode(Response{
			Status: "ok",
			Solution: Solution{
				URL:      "https://www.pinterest.com/pin/1/",
				Status:   200,
				Response: "<html></html>",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 10*time.Second, logging.Discard())

	html, finalURL, err := client.FetchHTML(context.Background(), "https://pin.it/abc", "UA/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "<html></html>" {
		t.Errorf("html = %q", html)
	}
	if finalURL != "https://www.pinterest.com/pin/1/" {
		t.Errorf("finalURL = %q", finalURL)
	}
}

func TestClient_FetchHTML_UpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Status: "ok", Solution: Solution{Status: 404}})
	}))
	defer server.Close()

	client := NewClient(server.URL, 10*time.Second, logging.Discard())

	if _, _, err := client.FetchHTML(context.Background(), "https://pin.it/gone", ""); err == nil {
		t.Fatal("expected error for 404 solution status")
	}
}

func TestClient_FetchHTML_SolverError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{
			Status:  "error",
			Message: "Cloudflare challenge failed",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second, logging.Discard())

	_, _, err := client.FetchHTML(context.Background(), "https://www.instagram.com/reel/x/", "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "FlareSolverr error: Cloudflare challenge failed" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestClient_FetchHTML_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second, logging.Discard())

	if _, _, err := client.FetchHTML(context.Background(), "https://example.com", ""); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestClient_IsConfigured(t *testing.T) {
	log := logging.Discard()

	if !NewClient("http://localhost:8191", 30*time.Second, log).IsConfigured() {
		t.Error("expected client to be configured")
	}
	if NewClient("", 30*time.Second, log).IsConfigured() {
		t.Error("expected empty client to not be configured")
	}
}
