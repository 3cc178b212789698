// Package appctx provides the application context that holds all runtime dependencies.
package appctx

import (
	"media-resolver-go/pkg/config"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/services"
	"media-resolver-go/pkg/types"
)

// Version is reported by /api/info and the CLI. Set at build time via ldflags.
var Version = "dev"

// Context holds all application runtime dependencies.
// Pass this single struct to components instead of individual parameters.
type Context struct {
	Config    *config.Config
	Log       *logging.Logger
	Resolver  *services.ResolverService
	Backend   string
	Platforms []types.Platform
}

// New creates a new application context.
func New(cfg *config.Config, log *logging.Logger) *Context {
	return &Context{
		Config:    cfg,
		Log:       log,
		Platforms: types.SupportedPlatforms,
	}
}

// WithResolver sets the resolver service and the page backend it scrapes with.
func (c *Context) WithResolver(r *services.ResolverService, backend string) *Context {
	c.Resolver = r
	c.Backend = backend
	return c
}
