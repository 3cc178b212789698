package types

import (
	"errors"
	"fmt"
)

// ErrElementNotFound is returned by page probes when the selector matches nothing.
var ErrElementNotFound = errors.New("element not found")

// UnsupportedPlatformError is returned when a URL does not belong to any known platform.
type UnsupportedPlatformError struct {
	URL string
}

func (e *UnsupportedPlatformError) Error() string {
	return "Unsupported platform"
}

// InvalidURLError is returned when the platform is known but no identifier
// can be parsed from the URL.
type InvalidURLError struct {
	Platform Platform
	URL      string
	Reason   string
}

func (e *InvalidURLError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s URL", e.Platform)
	}
	return fmt.Sprintf("invalid %s URL: %s", e.Platform, e.Reason)
}

// UpstreamFetchError wraps a failure reported by a platform's metadata client.
// The message is passed through unchanged.
type UpstreamFetchError struct {
	Platform Platform
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// ExtractionFailedError is returned when no direct media URL could be recovered from a page.
type ExtractionFailedError struct {
	Platform Platform
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("Could not extract media from %s. The link might be private or blocked.", e.Platform)
}

// NavigationError is returned when a page session could not be started or the
// page did not load within its bound.
type NavigationError struct {
	Platform Platform
	Stage    string
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Platform, e.Stage, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
