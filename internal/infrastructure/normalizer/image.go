package normalizer

import (
	"bytes"
	"fmt"
	"image"

	// Decoders for the supported native image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

var mimeDecoderName = map[string]string{
	mimeJPEG: "jpeg",
	mimePNG:  "png",
	mimeWEBP: "webp",
	mimeGIF:  "gif",
}

// decodeImage verifies that the bytes really decode as the declared format
// and returns a single canonical image. The original bytes are carried
// through unmodified: the capability accepts all four native formats, so
// re-encoding would only lose content.
func decodeImage(data []byte, mimeType string) ([]domain.CanonicalImage, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domain.WrapError(domain.ErrDecodeFailure, "decode image", err)
	}
	if expected := mimeDecoderName[mimeType]; format != expected {
		return nil, domain.WrapError(domain.ErrDecodeFailure, "decode image",
			fmt.Errorf("declared %s but bytes decode as %s", expected, format))
	}

	return []domain.CanonicalImage{{
		Page:     1,
		Width:    config.Width,
		Height:   config.Height,
		MIMEType: mimeType,
		Data:     data,
	}}, nil
}
