package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

func testSchema() domain.ClassificationSchema {
	return domain.DefaultClassificationSchema()
}

func testImages() []domain.CanonicalImage {
	return []domain.CanonicalImage{{
		Page:     1,
		Width:    12,
		Height:   8,
		MIMEType: "image/jpeg",
		Data:     []byte{0xff, 0xd8, 0xff, 0xe0},
	}}
}

func completionBody(content string) string {
	payload := map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
			},
		}},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func newTestClient(serverURL string) *Client {
	return New(Config{
		APIKey:  "test-key",
		BaseURL: serverURL + "/v1",
		Model:   "gpt-4o-mini",
	})
}

func TestClassifyImagesBuildsConstrainedRequest(t *testing.T) {
	var requestBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody(`{"document_type":"invoice","notes":"utility invoice"}`))
	}))
	defer server.Close()

	raw, err := newTestClient(server.URL).ClassifyImages(context.Background(), testImages(), testSchema())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(raw), `"document_type":"invoice"`) {
		t.Fatalf("unexpected raw payload: %s", raw)
	}

	var request struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
				Schema struct {
					Properties map[string]struct {
						Enum []string `json:"enum"`
					} `json:"properties"`
				} `json:"schema"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	if err := json.Unmarshal(requestBody, &request); err != nil {
		t.Fatalf("decode captured request: %v", err)
	}
	if request.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected json_schema response format, got %q", request.ResponseFormat.Type)
	}
	if !request.ResponseFormat.JSONSchema.Strict {
		t.Fatal("expected strict schema constraint")
	}
	enum := request.ResponseFormat.JSONSchema.Schema.Properties["document_type"].Enum
	if len(enum) != len(testSchema().Categories) {
		t.Fatalf("expected category enum in schema constraint, got %v", enum)
	}
	if len(request.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(request.Messages))
	}
	if !strings.Contains(string(request.Messages[1].Content), "data:image/jpeg;base64,") {
		t.Fatalf("expected data-URL image part, got %s", request.Messages[1].Content)
	}
}

func TestClassifyImagesQuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limit reached","type":"requests"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ClassifyImages(context.Background(), testImages(), testSchema())
	if !domain.IsKind(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota exceeded, got %v", err)
	}
}

func TestClassifyImagesServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"error":{"message":"upstream unavailable","type":"server_error"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ClassifyImages(context.Background(), testImages(), testSchema())
	if !domain.IsKind(err, domain.ErrExternalCall) {
		t.Fatalf("expected external call failure, got %v", err)
	}
}

func TestClassifyImagesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completionBody(`{"document_type":"invoice","notes":""}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).ClassifyImages(ctx, testImages(), testSchema())
	if !domain.IsKind(err, domain.ErrExternalCall) {
		t.Fatalf("expected external call failure on timeout, got %v", err)
	}
}

func TestClassifyImagesEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"chatcmpl-test","object":"chat.completion","choices":[]}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ClassifyImages(context.Background(), testImages(), testSchema())
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}
