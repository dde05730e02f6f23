package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/pokedex/internal/domain"
	"github.com/ignite/pokedex/internal/pkg/httputil"
	"github.com/ignite/pokedex/internal/pkg/logger"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind pokemon.Kind) int {
	switch kind {
	case pokemon.KindOK:
		return http.StatusOK
	case pokemon.KindBadRequest:
		return http.StatusBadRequest
	case pokemon.KindConflict:
		return http.StatusConflict
	case pokemon.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes the error envelope for a service error. 4xx
// bodies carry a client-safe message; 5xx bodies never include the cause,
// which is logged with the request ID instead.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := pokemon.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		httputil.Error(w, status, string(kind), safeErrorMessage(status, err))
		return
	}
	httputil.Error(w, status, string(kind), publicMessage(err))
}

// publicMessage strips the service-level prefix so clients see the validation
// detail ("invalid pokemon: number out of range: 0") rather than the wrapper.
func publicMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, domain.ErrValidation) {
		if i := strings.Index(msg, domain.ErrValidation.Error()); i >= 0 {
			return msg[i:]
		}
	}
	return msg
}

// safeErrorMessage maps common internal error patterns to public-safe messages.
// For 4xx errors the original message is returned; for 5xx a generic message.
func safeErrorMessage(code int, internalErr error) string {
	if code < 500 {
		if internalErr != nil {
			return publicMessage(internalErr)
		}
		return "Bad request"
	}

	if internalErr == nil {
		return "An internal error occurred"
	}

	errStr := strings.ToLower(internalErr.Error())

	switch {
	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp"):
		return "Storage temporarily unavailable"

	case strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context canceled"):
		return "Request timed out"

	default:
		return "An internal error occurred"
	}
}
