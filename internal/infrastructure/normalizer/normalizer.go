// Package normalizer converts uploaded file bytes into canonical raster
// images ready for submission to the vision capability. Native images pass
// through losslessly after decode verification; PDFs are rasterized page by
// page in page order.
package normalizer

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

const (
	mimePDF  = "application/pdf"
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeWEBP = "image/webp"
	mimeGIF  = "image/gif"
)

var extensionMIME = map[string]string{
	".pdf":  mimePDF,
	".jpg":  mimeJPEG,
	".jpeg": mimeJPEG,
	".png":  mimePNG,
	".webp": mimeWEBP,
	".gif":  mimeGIF,
}

type Normalizer struct {
	renderDPI   float64
	maxPDFPages int
}

func New(renderDPI float64, maxPDFPages int) *Normalizer {
	if renderDPI <= 0 {
		renderDPI = 200
	}
	if maxPDFPages <= 0 {
		maxPDFPages = 50
	}
	return &Normalizer{renderDPI: renderDPI, maxPDFPages: maxPDFPages}
}

func (n *Normalizer) Normalize(ctx context.Context, file domain.UploadedFile) ([]domain.CanonicalImage, error) {
	mimeType, err := resolveFormat(file)
	if err != nil {
		return nil, err
	}

	if mimeType == mimePDF {
		return n.rasterizePDF(ctx, file.Data)
	}
	return decodeImage(file.Data, mimeType)
}

// resolveFormat maps the declared content type to a supported format, falling
// back to the filename extension when the declaration is absent or generic.
func resolveFormat(file domain.UploadedFile) (string, error) {
	declared := strings.TrimSpace(file.ContentType)
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			declared = mediaType
		}
	}

	switch declared {
	case mimePDF, mimeJPEG, mimePNG, mimeWEBP, mimeGIF:
		return declared, nil
	case "", "application/octet-stream":
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if mimeType, ok := extensionMIME[ext]; ok {
			return mimeType, nil
		}
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "resolve format",
			fmt.Errorf("undeclared type with extension %q", ext))
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "resolve format",
			fmt.Errorf("declared type %q", declared))
	}
}
