package ports

import (
	"context"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

// DocumentClassifier is the inbound contract for the classification pipeline.
// It is the only surface the transport adapter sees.
type DocumentClassifier interface {
	Classify(ctx context.Context, file domain.UploadedFile) (domain.ClassificationResult, error)
}
