package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

// ValidateResponse parses the capability's raw payload into a typed result.
// Validation is strict: the payload must be a single JSON object with exactly
// the schema-declared fields, and document_type must be a member of the
// enumeration. Unknown categories are rejected, never mapped to a fallback;
// silent coercion would mask schema drift between request and capability.
func ValidateResponse(raw json.RawMessage, schema domain.ClassificationSchema) (domain.ClassificationResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return domain.ClassificationResult{}, domain.WrapError(
			domain.ErrMalformedResponse, "parse response", fmt.Errorf("empty payload"))
	}

	var payload struct {
		DocumentType *string `json:"document_type"`
		Notes        string  `json:"notes"`
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrMalformedResponse, "parse response", err)
	}
	if decoder.More() {
		return domain.ClassificationResult{}, domain.WrapError(
			domain.ErrMalformedResponse, "parse response", fmt.Errorf("trailing data after payload"))
	}

	if payload.DocumentType == nil || strings.TrimSpace(*payload.DocumentType) == "" {
		return domain.ClassificationResult{}, domain.WrapError(
			domain.ErrSchemaViolation, "validate category", fmt.Errorf("document_type is absent"))
	}
	category := *payload.DocumentType
	if !schema.Contains(category) {
		return domain.ClassificationResult{}, domain.WrapError(
			domain.ErrSchemaViolation, "validate category",
			fmt.Errorf("category %q is not in schema %s", category, schema.Version))
	}

	return domain.ClassificationResult{
		Category: category,
		Notes:    payload.Notes,
	}, nil
}
