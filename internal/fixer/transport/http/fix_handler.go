package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nexfone/portfix/internal/fixer/app"
	"github.com/nexfone/portfix/internal/fixer/domain"
)

// FixService is what the handler needs from the application layer.
type FixService interface {
	FixNumberPool(ctx context.Context, input string, target domain.EnpTarget, dryRun bool) (*app.NumberPoolResult, error)
	FixRoutingCache(ctx context.Context, input string, dryRun bool) (*app.RoutingCacheResult, error)
	FixProvisioning(ctx context.Context, input string, dryRun bool) (*app.ProvisioningResult, error)
}

// FixHandler handles the three fix endpoints.
type FixHandler struct {
	service  FixService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewFixHandler creates a new FixHandler.
func NewFixHandler(service FixService, logger *slog.Logger, validate *validator.Validate) *FixHandler {
	return &FixHandler{
		service:  service,
		logger:   logger,
		validate: validate,
	}
}

// RegisterRoutes mounts the fix endpoints on the given router. The caller
// is expected to wrap the router in the API-token middleware.
func (h *FixHandler) RegisterRoutes(r chi.Router) {
	r.Post("/fix/enp", h.HandleFixNumberPool)
	r.Post("/fix/nprn", h.HandleFixRoutingCache)
	r.Post("/fix/disp", h.HandleFixProvisioning)
}

// HandleFixNumberPool resets number-pool rows to the fixed ENP state.
func (h *FixHandler) HandleFixNumberPool(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	target := domain.EnpTarget(req.EnpTarget)
	if target == "" {
		target = domain.EnpTargetNXP1
	}

	result, err := h.service.FixNumberPool(r.Context(), req.Input, target, req.DryRun)
	if err != nil {
		h.respondFixError(w, r, err)
		return
	}
	if result.AllPairsFailed() {
		// Nothing succeeded; surface as a backend failure with the detail.
		respondWithJSON(w, http.StatusBadGateway, result)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleFixRoutingCache deletes stale routing-cache keys.
func (h *FixHandler) HandleFixRoutingCache(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.FixRoutingCache(r.Context(), req.Input, req.DryRun)
	if err != nil {
		h.respondFixError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleFixProvisioning removes stale provisioning rows.
func (h *FixHandler) HandleFixProvisioning(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.FixProvisioning(r.Context(), req.Input, req.DryRun)
	if err != nil {
		h.respondFixError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *FixHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (FixRequest, bool) {
	var req FixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid request body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", "error", err)
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return req, false
	}
	return req, true
}

func (h *FixHandler) respondFixError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Fix operation failed", "error", err)
	} else {
		h.logger.WarnContext(r.Context(), "Fix request rejected", "error", err)
	}
	respondWithError(w, status, err.Error())
}

// statusForError maps domain validation errors to client errors; anything
// else is a backend communication failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrRangeTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, GenericErrorResponse{Error: message})
}
