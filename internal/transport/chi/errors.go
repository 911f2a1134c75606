package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		validationHandler,
		storeErrorHandler,
		sentinelHandler(domain.ErrInternalConsistency, http.StatusInternalServerError,
			ErrorResponseCodeInternalError, "internal error"),
	}
}

// validationHandler exposes the validation message; it only describes caller input.
func validationHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
	return true
}

// storeErrorHandler maps transient store failures to 503, everything else to 500.
func storeErrorHandler(w http.ResponseWriter, err error) bool {
	kind, ok := domain.StoreKindOf(err)
	if !ok {
		return false
	}
	switch kind {
	case domain.StoreConnectionFailure, domain.StoreTimeout:
		writeError(w, http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable, "store unavailable")
	default:
		writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
	}
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	if errors.Is(err, domain.ErrValidation) {
		log.Debug("rejected request", zap.Error(err))
	} else {
		log.Error("listing failed", zap.Error(err))
	}
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
