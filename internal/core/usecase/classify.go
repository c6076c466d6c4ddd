package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
	"github.com/ekuzmichev/document-classifier/internal/core/ports"
	"github.com/ekuzmichev/document-classifier/internal/infrastructure/resilience"
)

// PagePolicy selects which canonical images of a multi-page document are
// submitted to the capability. MaxPages <= 0 submits every page.
type PagePolicy struct {
	MaxPages int
}

// DefaultPagePolicy submits only the first page, the cheap common case where
// page one is representative of the whole document.
func DefaultPagePolicy() PagePolicy {
	return PagePolicy{MaxPages: 1}
}

func (p PagePolicy) Select(images []domain.CanonicalImage) []domain.CanonicalImage {
	if p.MaxPages <= 0 || len(images) <= p.MaxPages {
		return images
	}
	return images[:p.MaxPages]
}

// ClassifyDocumentUseCase orchestrates the classification pipeline:
// normalize, submit under the schema constraint, validate. It owns the
// timeout and retry policy around the external capability and is the only
// component the transport adapter talks to.
type ClassifyDocumentUseCase struct {
	normalizer ports.ImageNormalizer
	capability ports.VisionCapability
	schema     domain.ClassificationSchema
	policy     PagePolicy
	timeout    time.Duration
	executor   *resilience.Executor
}

func NewClassifyDocumentUseCase(
	normalizer ports.ImageNormalizer,
	capability ports.VisionCapability,
	schema domain.ClassificationSchema,
	policy PagePolicy,
	timeout time.Duration,
	executor *resilience.Executor,
) *ClassifyDocumentUseCase {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if executor == nil {
		executor = resilience.NewExecutor("classify_document", resilience.DefaultPolicy(), RetryVerdict)
	}
	return &ClassifyDocumentUseCase{
		normalizer: normalizer,
		capability: capability,
		schema:     schema,
		policy:     policy,
		timeout:    timeout,
		executor:   executor,
	}
}

// RetryVerdict is the retry classifier for the capability call: only
// ExternalCallFailure is transient. Quota, schema and decode failures are
// final by definition, and context cancellation must not be fought.
func RetryVerdict(err error) resilience.Verdict {
	if domain.IsKind(err, domain.ErrExternalCall) {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Verdict{Retryable: true, RecordFailure: true}
	}
	return resilience.Verdict{Retryable: false, RecordFailure: false}
}

func (uc *ClassifyDocumentUseCase) Classify(ctx context.Context, file domain.UploadedFile) (domain.ClassificationResult, error) {
	images, err := uc.normalizer.Normalize(ctx, file)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("normalize document: %w", err)
	}
	if len(images) == 0 {
		return domain.ClassificationResult{}, domain.WrapError(
			domain.ErrDecodeFailure, "normalize document", fmt.Errorf("normalizer produced no images"))
	}

	raw, err := uc.request(ctx, uc.policy.Select(images))
	if err != nil {
		return domain.ClassificationResult{}, err
	}

	result, err := ValidateResponse(raw, uc.schema)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("validate response: %w", err)
	}
	return result, nil
}

// request runs the capability call under the per-attempt timeout and the
// bounded retry/breaker executor.
func (uc *ClassifyDocumentUseCase) request(ctx context.Context, images []domain.CanonicalImage) (json.RawMessage, error) {
	var raw json.RawMessage
	err := uc.executor.Execute(ctx, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, uc.timeout)
		defer cancel()

		var callErr error
		raw, callErr = uc.capability.ClassifyImages(attemptCtx, images, uc.schema)
		return callErr
	})
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			err = domain.WrapError(domain.ErrExternalCall, "classify images", err)
		}
		return nil, fmt.Errorf("classify images: %w", err)
	}
	return raw, nil
}
