// Package registry provides registries for extraction rules and resolution strategies.
package registry

import (
	"sync"

	"media-resolver-go/pkg/interfaces"
	"media-resolver-go/pkg/types"
)

// RuleRegistry maps each platform to its extraction rule.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[types.Platform]interfaces.ExtractionRule
}

// NewRuleRegistry creates a new rule registry.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		rules: make(map[types.Platform]interfaces.ExtractionRule),
	}
}

// Register adds a rule to the registry, replacing any rule for the same platform.
func (r *RuleRegistry) Register(rule interfaces.ExtractionRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.Platform()] = rule
}

// Get returns the rule for platform.
func (r *RuleRegistry) Get(platform types.Platform) (interfaces.ExtractionRule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[platform]
	return rule, ok
}

// Platforms returns the platforms with a registered rule, in SupportedPlatforms order.
func (r *RuleRegistry) Platforms() []types.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]types.Platform, 0, len(r.rules))
	for _, p := range types.SupportedPlatforms {
		if _, ok := r.rules[p]; ok {
			result = append(result, p)
		}
	}
	return result
}

// StrategyRegistry routes platforms to resolution strategies.
type StrategyRegistry struct {
	mu       sync.RWMutex
	routes   map[types.Platform]interfaces.Strategy
	fallback interfaces.Strategy
}

// NewStrategyRegistry creates a new strategy registry.
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		routes: make(map[types.Platform]interfaces.Strategy),
	}
}

// Route sends platform to strategy.
func (r *StrategyRegistry) Route(platform types.Platform, strategy interfaces.Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[platform] = strategy
}

// SetFallback sets the strategy used for platforms without an explicit route.
func (r *StrategyRegistry) SetFallback(strategy interfaces.Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = strategy
}

// Get returns the strategy for platform, or the fallback.
func (r *StrategyRegistry) Get(platform types.Platform) interfaces.Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.routes[platform]; ok {
		return s
	}
	return r.fallback
}
