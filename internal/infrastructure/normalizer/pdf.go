package normalizer

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

const pageJPEGQuality = 85

// rasterizePDF renders every page into a JPEG canonical image, page order
// preserved. A cheap structural preflight rejects corrupt or oversized
// documents before any page is rendered.
func (n *Normalizer) rasterizePDF(ctx context.Context, data []byte) ([]domain.CanonicalImage, error) {
	pages, err := preflightPDF(data)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, domain.WrapError(domain.ErrDecodeFailure, "preflight pdf", fmt.Errorf("document has no pages"))
	}
	if pages > n.maxPDFPages {
		return nil, domain.WrapError(domain.ErrDecodeFailure, "preflight pdf",
			fmt.Errorf("page count %d exceeds limit %d", pages, n.maxPDFPages))
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, domain.WrapError(domain.ErrDecodeFailure, "open pdf", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	images := make([]domain.CanonicalImage, 0, total)
	for pageIndex := 0; pageIndex < total; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := doc.ImageDPI(pageIndex, n.renderDPI)
		if err != nil {
			return nil, domain.WrapError(domain.ErrDecodeFailure, "render pdf page",
				fmt.Errorf("page %d: %w", pageIndex+1, err))
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: pageJPEGQuality}); err != nil {
			return nil, domain.WrapError(domain.ErrDecodeFailure, "encode pdf page",
				fmt.Errorf("page %d: %w", pageIndex+1, err))
		}

		bounds := frame.Bounds()
		images = append(images, domain.CanonicalImage{
			Page:     pageIndex + 1,
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
			MIMEType: mimeJPEG,
			Data:     buf.Bytes(),
		})
	}

	return images, nil
}

// preflightPDF validates the cross-reference structure and reports the page
// count without rendering anything. The parser panics on some malformed
// inputs, so the recover maps those to decode failures as well.
func preflightPDF(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = domain.WrapError(domain.ErrDecodeFailure, "preflight pdf", fmt.Errorf("parse: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, domain.WrapError(domain.ErrDecodeFailure, "preflight pdf", err)
	}
	return reader.NumPage(), nil
}
