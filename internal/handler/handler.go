// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/petgateway/petgateway/internal/service"
	apimodel "github.com/petgateway/petgateway/pkg/model"
)

// Version is reported by the info endpoint.
const Version = "1.0.0"

// Handler serves the endpoints that need no service dependencies.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Info describes the gateway.
// GET /
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Pet gateway",
		"version": Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, apimodel.CodeNotFound, "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, apimodel.CodeMethodNotAllowed, "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes the gateway error payload. Middleware shares it so every
// non-2xx answer has the same shape.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apimodel.Error{Code: code, Message: message})
}

// decodeJSON reads a request body into dst. It writes the error response
// itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, apimodel.CodeRequestTooLarge, "Request body too large")
			return false
		}
		WriteError(w, http.StatusBadRequest, apimodel.CodeInvalidInput, "Invalid input parameters")
		return false
	}
	return true
}

// handleServiceError maps service errors to gateway error responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusBadRequest, apimodel.CodeInvalidInput, "Invalid input parameters")
	case errors.Is(err, service.ErrUsernameTaken):
		WriteError(w, http.StatusBadRequest, apimodel.CodeUsernameTaken, "Username is taken")
	case errors.Is(err, service.ErrPetNotFound):
		WriteError(w, http.StatusNotFound, apimodel.CodePetNotFound, "Pet not found")
	case errors.Is(err, service.ErrIdentity):
		logger.Error("identity_error", "error", err)
		WriteError(w, http.StatusInternalServerError, apimodel.CodeIdentityError, "Cannot retrieve identity")
	default:
		logger.Error("internal_error", "error", err)
		WriteError(w, http.StatusInternalServerError, apimodel.CodeInternalError, "An internal error occurred")
	}
}
