package openai

import (
	"context"
	"errors"
	"net/http"

	sdk "github.com/sashabaranov/go-openai"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

// translateError maps SDK and transport errors onto the pipeline's failure
// kinds. Rate and billing limits both surface as QuotaExceeded and are never
// retried here; everything else network-shaped is an ExternalCallFailure.
// Caller cancellation passes through untranslated.
func translateError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.ErrExternalCall, operation, err)
	}

	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		if isQuotaStatus(apiErr.HTTPStatusCode) {
			return domain.WrapError(domain.ErrQuotaExceeded, operation, err)
		}
		return domain.WrapError(domain.ErrExternalCall, operation, err)
	}

	var reqErr *sdk.RequestError
	if errors.As(err, &reqErr) {
		if isQuotaStatus(reqErr.HTTPStatusCode) {
			return domain.WrapError(domain.ErrQuotaExceeded, operation, err)
		}
		return domain.WrapError(domain.ErrExternalCall, operation, err)
	}

	return domain.WrapError(domain.ErrExternalCall, operation, err)
}

func isQuotaStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode == http.StatusPaymentRequired
}
