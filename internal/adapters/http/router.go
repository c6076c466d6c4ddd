// Package httpadapter is the thin HTTP boundary in front of the
// classification pipeline: multipart upload in, one JSON payload out. All
// pipeline semantics live behind the inbound port.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ekuzmichev/document-classifier/internal/config"
	"github.com/ekuzmichev/document-classifier/internal/core/domain"
	"github.com/ekuzmichev/document-classifier/internal/core/ports"
	"github.com/ekuzmichev/document-classifier/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	classifier ports.DocumentClassifier
	metrics    *metrics.ServerMetrics
	cfg        config.Config
}

func NewRouter(classifier ports.DocumentClassifier, serverMetrics *metrics.ServerMetrics, cfg config.Config) *Router {
	return &Router{
		classifier: classifier,
		metrics:    serverMetrics,
		cfg:        cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/classifications", rt.classifyDocument)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type classificationResponse struct {
	DocumentType  string `json:"document_type"`
	Notes         string `json:"notes,omitempty"`
	SchemaVersion string `json:"schema_version"`
}

func (rt *Router) classifyDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "uploaded file exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "uploaded file exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "could not read uploaded file")
		return
	}

	upload := domain.UploadedFile{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	start := time.Now()
	result, err := rt.classifier.Classify(r.Context(), upload)
	rt.recordClassification(err, time.Since(start), int64(len(data)))
	if err != nil {
		rt.writeClassificationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, classificationResponse{
		DocumentType:  result.Category,
		Notes:         result.Notes,
		SchemaVersion: rt.cfg.SchemaVersion,
	})
}

func (rt *Router) recordClassification(err error, duration time.Duration, uploadSize int64) {
	if rt.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = domain.KindName(domain.KindOf(err))
	}
	rt.metrics.RecordClassification(serviceName, outcome, duration)
	rt.metrics.RecordUploadSize(serviceName, uploadSize)
}

func (rt *Router) writeClassificationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		// The caller is gone; there is nobody to answer.
		return
	}

	kind := domain.KindOf(err)
	slog.Warn("classification_failed",
		"request_id", requestIDFromContext(r.Context()),
		"kind", domain.KindName(kind),
		"error", err,
	)
	writeError(w, statusForKind(kind), domain.KindName(kind), messageForKind(kind))
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
