package domain

import (
	"errors"
	"fmt"
)

// Failure kinds of the classification pipeline. The set is closed: every error
// leaving the core wraps exactly one of these sentinels.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDecodeFailure     = errors.New("decode failure")
	ErrExternalCall      = errors.New("external call failure")
	ErrQuotaExceeded     = errors.New("quota exceeded")
	ErrSchemaViolation   = errors.New("schema violation")
	ErrMalformedResponse = errors.New("malformed response")
)

var kinds = []error{
	ErrUnsupportedFormat,
	ErrDecodeFailure,
	ErrExternalCall,
	ErrQuotaExceeded,
	ErrSchemaViolation,
	ErrMalformedResponse,
}

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// KindOf reports the failure kind an error wraps, or nil for errors outside
// the taxonomy (context cancellation, programming errors).
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName returns the stable wire identifier for a failure kind.
func KindName(kind error) string {
	switch kind {
	case ErrUnsupportedFormat:
		return "unsupported_format"
	case ErrDecodeFailure:
		return "decode_failure"
	case ErrExternalCall:
		return "external_call_failure"
	case ErrQuotaExceeded:
		return "quota_exceeded"
	case ErrSchemaViolation:
		return "schema_violation"
	case ErrMalformedResponse:
		return "malformed_response"
	default:
		return "internal"
	}
}
