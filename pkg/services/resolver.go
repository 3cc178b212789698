// Package services provides the resolution service that ties classification,
// strategy dispatch and normalization together.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"media-resolver-go/pkg/classifier"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/registry"
	"media-resolver-go/pkg/types"
)

// ResolverService turns a URL into normalized media info.
type ResolverService struct {
	log        *logging.Logger
	strategies *registry.StrategyRegistry
	timeout    time.Duration
}

// NewResolverService creates a resolver. timeout caps every resolution; zero disables the cap.
func NewResolverService(log *logging.Logger, strategies *registry.StrategyRegistry, timeout time.Duration) *ResolverService {
	return &ResolverService{
		log:        log.WithComponent("resolver"),
		strategies: strategies,
		timeout:    timeout,
	}
}

// Resolve classifies rawURL and hands it to exactly one strategy. The caller's
// context is the parent of the resolution deadline, so cancelling it stops the work.
func (s *ResolverService) Resolve(ctx context.Context, rawURL string) (*types.MediaInfoResult, error) {
	rawURL = strings.TrimSpace(rawURL)

	platform := classifier.Classify(rawURL)
	if platform == types.PlatformUnsupported {
		return nil, &types.UnsupportedPlatformError{URL: rawURL}
	}

	strategy := s.strategies.Get(platform)
	if strategy == nil {
		return nil, errors.New("no resolution strategy configured for " + platform.String())
	}

	log := logging.FromContext(ctx, s.log).WithPlatform(platform.String())
	ctx = log.WithContext(ctx)
	log = log.WithURL(rawURL)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	log.Debug("resolving", "strategy", strategy.Name())

	raw, err := strategy.Resolve(ctx, rawURL, platform)
	if err != nil {
		log.WithError(err).Warn("resolution failed", "strategy", strategy.Name(), "duration", time.Since(start))
		return nil, err
	}

	result := Normalize(platform, raw)
	log.Info("resolved", "formats", len(result.Formats), "duration", time.Since(start))
	return result, nil
}

// Normalize stamps the platform and drops assets without a URL, keeping order.
func Normalize(platform types.Platform, raw *types.RawMediaInfo) *types.MediaInfoResult {
	result := &types.MediaInfoResult{
		Platform: platform,
		Formats:  []types.MediaAsset{},
	}
	if raw == nil {
		return result
	}

	result.Title = raw.Title
	result.Thumbnail = raw.Thumbnail
	for _, f := range raw.Formats {
		if f.URL == "" {
			continue
		}
		result.Formats = append(result.Formats, f)
	}
	return result
}
