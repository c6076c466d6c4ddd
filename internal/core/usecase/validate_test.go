package usecase

import (
	"encoding/json"
	"testing"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

func twoCategorySchema() domain.ClassificationSchema {
	return domain.ClassificationSchema{Version: "v-test", Categories: []string{"invoice", "receipt"}}
}

func TestValidateResponseAcceptsSchemaMember(t *testing.T) {
	raw := json.RawMessage(`{"document_type":"invoice","notes":"monthly invoice from ACME"}`)

	result, err := ValidateResponse(raw, twoCategorySchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != "invoice" {
		t.Fatalf("expected category invoice, got %q", result.Category)
	}
	if result.Notes != "monthly invoice from ACME" {
		t.Fatalf("unexpected notes: %q", result.Notes)
	}
}

func TestValidateResponseRejectsUnknownCategory(t *testing.T) {
	raw := json.RawMessage(`{"document_type":"spreadsheet","notes":""}`)

	_, err := ValidateResponse(raw, twoCategorySchema())
	if !domain.IsKind(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}
}

func TestValidateResponseRejectsAbsentCategory(t *testing.T) {
	for _, raw := range []string{`{"notes":"no type"}`, `{"document_type":"","notes":""}`} {
		_, err := ValidateResponse(json.RawMessage(raw), twoCategorySchema())
		if !domain.IsKind(err, domain.ErrSchemaViolation) {
			t.Fatalf("payload %s: expected schema violation, got %v", raw, err)
		}
	}
}

func TestValidateResponseRejectsUnparseablePayload(t *testing.T) {
	for _, raw := range []string{"", "not json at all", `"just a string"`, `{"document_type":`} {
		_, err := ValidateResponse(json.RawMessage(raw), twoCategorySchema())
		if !domain.IsKind(err, domain.ErrMalformedResponse) {
			t.Fatalf("payload %q: expected malformed response, got %v", raw, err)
		}
	}
}

func TestValidateResponseRejectsUndeclaredFields(t *testing.T) {
	raw := json.RawMessage(`{"document_type":"invoice","notes":"","confidence":0.9}`)

	_, err := ValidateResponse(raw, twoCategorySchema())
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response for undeclared field, got %v", err)
	}
}

func TestValidateResponseRejectsMistypedFields(t *testing.T) {
	// A valid category with malformed supporting fields is still rejected;
	// the result is never partially populated.
	raw := json.RawMessage(`{"document_type":"invoice","notes":42}`)

	_, err := ValidateResponse(raw, twoCategorySchema())
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response for mistyped notes, got %v", err)
	}
}

func TestValidateResponseRejectsTrailingData(t *testing.T) {
	raw := json.RawMessage(`{"document_type":"invoice","notes":""}{"x":1}`)

	_, err := ValidateResponse(raw, twoCategorySchema())
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response for trailing data, got %v", err)
	}
}
