package ports

import (
	"context"
	"encoding/json"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

// ImageNormalizer converts uploaded bytes into canonical raster images.
// The returned sequence is non-empty and preserves source page order.
type ImageNormalizer interface {
	Normalize(ctx context.Context, file domain.UploadedFile) ([]domain.CanonicalImage, error)
}

// VisionCapability submits canonical images to the external classification
// model under a schema constraint and returns the raw structured payload.
// Parsing and validation of the payload belong to the caller.
type VisionCapability interface {
	ClassifyImages(ctx context.Context, images []domain.CanonicalImage, schema domain.ClassificationSchema) (json.RawMessage, error)
}
