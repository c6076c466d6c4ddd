package httpadapter

import (
	"net/http"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

// statusForKind maps pipeline failure kinds to HTTP statuses. Upstream
// misbehavior (schema drift, unreadable payloads) is a bad gateway, not a
// client fault.
func statusForKind(kind error) int {
	switch kind {
	case domain.ErrUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case domain.ErrDecodeFailure:
		return http.StatusBadRequest
	case domain.ErrQuotaExceeded:
		return http.StatusTooManyRequests
	case domain.ErrExternalCall:
		return http.StatusServiceUnavailable
	case domain.ErrSchemaViolation, domain.ErrMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageForKind returns the fixed user-facing text per kind. The underlying
// cause stays in logs; no file bytes or credentials ever reach the response.
func messageForKind(kind error) string {
	switch kind {
	case domain.ErrUnsupportedFormat:
		return "unsupported file type; supported types: PDF, JPEG, PNG, WEBP, GIF"
	case domain.ErrDecodeFailure:
		return "file could not be decoded as its declared type"
	case domain.ErrQuotaExceeded:
		return "classification quota exceeded, try again later"
	case domain.ErrExternalCall:
		return "classification service is temporarily unavailable"
	case domain.ErrSchemaViolation:
		return "classifier returned an unrecognized category"
	case domain.ErrMalformedResponse:
		return "classifier returned an unreadable response"
	default:
		return "internal error"
	}
}

type errorBody struct {
	Error errorInfo `json:"error"`
}

type errorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorBody{Error: errorInfo{Kind: kind, Message: message}})
}
