// Package api provides HTTP handlers for the resolver API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"media-resolver-go/pkg/appctx"
	"media-resolver-go/pkg/logging"
	"media-resolver-go/pkg/types"
)

// maxRequestBody bounds the JSON body of a resolution request.
const maxRequestBody = 16 << 10

// Handlers contains all API handlers.
type Handlers struct {
	ctx *appctx.Context
	log *logging.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ctx *appctx.Context) *Handlers {
	return &Handlers{
		ctx: ctx,
		log: ctx.Log.WithComponent("api"),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	// Public routes
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /api/info", h.handleAPIInfo)

	// Resolution
	mux.HandleFunc("POST /api/download/info", h.handleDownloadInfo)
}

// handleHealth reports liveness.
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAPIInfo returns server status as JSON.
func (h *Handlers) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "running",
		"version":   appctx.Version,
		"backend":   h.ctx.Backend,
		"platforms": h.ctx.Platforms,
	})
}

// handleDownloadInfo resolves the URL in the JSON body into media info.
func (h *Handlers) handleDownloadInfo(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context(), h.log)

	var req types.ResolutionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.RawURL = strings.TrimSpace(req.RawURL)
	if req.RawURL == "" {
		h.writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.ctx.Resolver.Resolve(r.Context(), req.RawURL)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			log.WithURL(req.RawURL).WithError(err).Error("resolution failed")
		}
		h.writeError(w, status, errorMessage(err))
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// statusForError maps domain errors to HTTP status codes.
// Only an unsupported platform is the caller's fault; everything else is a 500.
func statusForError(err error) int {
	var unsupported *types.UnsupportedPlatformError
	if errors.As(err, &unsupported) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorMessage returns the caller-facing text for err. Errors that carry
// backend or parsing detail get a fixed message; the detail stays in the log.
func errorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timed out while resolving media"
	}

	var invalid *types.InvalidURLError
	if errors.As(err, &invalid) {
		return "Invalid " + invalid.Platform.String() + " link"
	}
	var nav *types.NavigationError
	if errors.As(err, &nav) {
		return "Could not load the " + nav.Platform.String() + " page. Please try again later."
	}
	return err.Error()
}

// Helper methods

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
