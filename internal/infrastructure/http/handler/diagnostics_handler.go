package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mrops-br/inventory-browser/internal/app/dto"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/http/response"
)

// ViewProvider exposes the current frame of a browsing session
type ViewProvider interface {
	ID() string
	View(ctx context.Context) (dto.BrowserView, error)
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// DiagnosticsHandler serves read-only introspection of the local session
type DiagnosticsHandler struct {
	session ViewProvider
	logger  *slog.Logger
}

// NewDiagnosticsHandler creates a new diagnostics handler
func NewDiagnosticsHandler(session ViewProvider, logger *slog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		session: session,
		logger:  logger,
	}
}

// Health handles GET /health
func (h *DiagnosticsHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		SessionID: h.session.ID(),
	})
}

// View handles GET /debug/view
func (h *DiagnosticsHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.View(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to build session view",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}
