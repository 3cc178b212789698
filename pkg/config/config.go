// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Browser backends selectable with BROWSER_BACKEND.
const (
	BackendChrome       = "chrome"
	BackendHTTP         = "http"
	BackendFlareSolverr = "flaresolverr"
)

// DefaultUserAgent is a realistic desktop browser user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Authentication
	APIPassword string

	// Proxy settings
	GlobalProxies   []string
	TransportRoutes []TransportRoute
	UTLSDomains     []string

	// Logging
	LogLevel string
	LogJSON  bool

	// Resolution limits
	ResolveTimeout     time.Duration
	NavigationTimeout  time.Duration
	ElementWaitTimeout time.Duration
	MaxBrowserSessions int

	// Browser settings
	BrowserBackend   string
	ChromePath       string
	BrowserWSURL     string
	BrowserNoSandbox bool
	UserAgent        string

	// YouTube settings
	YouTubeResolveCiphered bool

	// FlareSolverr settings (for Cloudflare bypass)
	FlareSolverrURL     string
	FlareSolverrTimeout time.Duration
}

// TransportRoute defines URL-specific proxy routing.
type TransportRoute struct {
	URLPattern string
	Proxy      string
	DisableSSL bool
	Direct     bool // If true, bypass global proxy and connect directly
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		Port:                   getEnvInt("PORT", 7860),
		ReadTimeout:            getEnvDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:           getEnvDuration("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:            getEnvDuration("IDLE_TIMEOUT", 60*time.Second),
		APIPassword:            os.Getenv("API_PASSWORD"),
		GlobalProxies:          getEnvStringSlice("GLOBAL_PROXIES", nil),
		UTLSDomains:            getEnvStringSlice("UTLS_DOMAINS", []string{"tiktok.com", "instagram.com", "facebook.com", "pinterest."}),
		LogLevel:               getEnvString("LOG_LEVEL", "info"),
		LogJSON:                getEnvBool("LOG_JSON", false),
		ResolveTimeout:         getEnvDuration("RESOLVE_TIMEOUT", 45*time.Second),
		NavigationTimeout:      getEnvDuration("NAVIGATION_TIMEOUT", 15*time.Second),
		ElementWaitTimeout:     getEnvDuration("ELEMENT_WAIT_TIMEOUT", 5*time.Second),
		MaxBrowserSessions:     getEnvInt("MAX_BROWSER_SESSIONS", 4),
		BrowserBackend:         strings.ToLower(getEnvString("BROWSER_BACKEND", BackendChrome)),
		ChromePath:             os.Getenv("CHROME_PATH"),
		BrowserWSURL:           os.Getenv("BROWSER_WS_URL"),
		BrowserNoSandbox:       getEnvBool("BROWSER_NO_SANDBOX", false),
		UserAgent:              getEnvString("USER_AGENT", DefaultUserAgent),
		YouTubeResolveCiphered: getEnvBool("YOUTUBE_RESOLVE_CIPHERED", true),
		FlareSolverrURL:        getEnvString("FLARESOLVERR_URL", ""),
		FlareSolverrTimeout:    getEnvDuration("FLARESOLVERR_TIMEOUT", 60*time.Second),
	}

	cfg.TransportRoutes = parseTransportRoutes(os.Getenv("TRANSPORT_ROUTES"))

	// Legacy single proxy support
	if globalProxy := os.Getenv("GLOBAL_PROXY"); globalProxy != "" && len(cfg.GlobalProxies) == 0 {
		cfg.GlobalProxies = []string{globalProxy}
	}

	return cfg
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	switch c.BrowserBackend {
	case BackendChrome, BackendHTTP:
	case BackendFlareSolverr:
		if c.FlareSolverrURL == "" {
			return fmt.Errorf("BROWSER_BACKEND=%s requires FLARESOLVERR_URL", c.BrowserBackend)
		}
	default:
		return fmt.Errorf("unknown BROWSER_BACKEND %q", c.BrowserBackend)
	}
	if c.MaxBrowserSessions < 1 {
		return fmt.Errorf("MAX_BROWSER_SESSIONS must be at least 1, got %d", c.MaxBrowserSessions)
	}
	if c.ResolveTimeout <= 0 || c.NavigationTimeout <= 0 || c.ElementWaitTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// parseTransportRoutes parses the TRANSPORT_ROUTES env var.
// Format: {URL=pattern, PROXY=url, DISABLE_SSL=true}, {URL=pattern2}
func parseTransportRoutes(s string) []TransportRoute {
	if s == "" {
		return nil
	}

	var routes []TransportRoute
	s = strings.TrimSpace(s)

	parts := strings.Split(s, "}, {")
	for _, part := range parts {
		part = strings.Trim(part, "{} ")
		if part == "" {
			continue
		}

		route := TransportRoute{}
		for _, field := range strings.Split(part, ", ") {
			kv := strings.SplitN(field, "=", 2)
			if len(kv) != 2 {
				continue
			}
			value := strings.TrimSpace(kv[1])

			switch strings.ToUpper(strings.TrimSpace(kv[0])) {
			case "URL":
				route.URLPattern = value
			case "PROXY":
				route.Proxy = value
			case "DISABLE_SSL":
				route.DisableSSL = strings.ToLower(value) == "true"
			case "DIRECT":
				route.Direct = strings.ToLower(value) == "true"
			}
		}
		if route.URLPattern != "" {
			routes = append(routes, route)
		}
	}

	return routes
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return strings.ToLower(val) == "true" || val == "1"
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		// Try parsing as seconds first
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvStringSlice(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultVal
}
