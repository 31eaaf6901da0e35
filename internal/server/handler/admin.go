package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// ResultsCompiler produces the full results dump.
type ResultsCompiler interface {
	Compile(ctx context.Context) (domain.AuctionResults, error)
}

// ResultsArchiver uploads a results snapshot to blob storage.
type ResultsArchiver interface {
	Archive(ctx context.Context) (key string, err error)
}

// AdminHandler serves organizer-only endpoints, gated by a shared secret
// passed as a query parameter. The query-param contract is kept for frontend
// compatibility; it is minimum-viable auth and deliberately not extended.
type AdminHandler struct {
	token    string
	results  ResultsCompiler
	archiver ResultsArchiver // nil when blob storage is not configured
	logger   *slog.Logger
}

// NewAdminHandler creates an AdminHandler. archiver may be nil.
func NewAdminHandler(token string, results ResultsCompiler, archiver ResultsArchiver, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		token:    token,
		results:  results,
		archiver: archiver,
		logger:   logger,
	}
}

// authorized compares the token query parameter against the configured
// secret in constant time.
func (h *AdminHandler) authorized(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	given := r.URL.Query().Get("token")
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.token)) == 1
}

// Results returns the per-item winners and bid histories plus summary counts.
// GET /admin/results?token=...
func (h *AdminHandler) Results(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusForbidden, "invalid admin token")
		return
	}

	results, err := h.results.Compile(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "compile results failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to compile results")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// Archive compiles the current results and uploads a snapshot to blob
// storage, returning the object key.
// POST /admin/archive?token=...
func (h *AdminHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusForbidden, "invalid admin token")
		return
	}
	if h.archiver == nil {
		writeError(w, http.StatusServiceUnavailable, "archiving is not configured")
		return
	}

	key, err := h.archiver.Archive(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "archive results failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to archive results")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}
