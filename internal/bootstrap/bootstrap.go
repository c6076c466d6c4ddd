// Package bootstrap wires configuration into the concrete pipeline: the
// normalizer and vision client behind their ports, the resilience executor
// around the external call, and the classify use case on top.
package bootstrap

import (
	"fmt"

	"github.com/ekuzmichev/document-classifier/internal/config"
	"github.com/ekuzmichev/document-classifier/internal/core/domain"
	"github.com/ekuzmichev/document-classifier/internal/core/ports"
	"github.com/ekuzmichev/document-classifier/internal/core/usecase"
	"github.com/ekuzmichev/document-classifier/internal/infrastructure/llm/openai"
	"github.com/ekuzmichev/document-classifier/internal/infrastructure/normalizer"
	"github.com/ekuzmichev/document-classifier/internal/infrastructure/resilience"
	"github.com/ekuzmichev/document-classifier/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Classifier ports.DocumentClassifier
	Metrics    *metrics.ServerMetrics
}

func New(cfg config.Config) (*App, error) {
	schema := domain.DefaultClassificationSchema()
	if len(cfg.SchemaCategories) > 0 {
		custom, err := domain.NewClassificationSchema(cfg.SchemaVersion, cfg.SchemaCategories)
		if err != nil {
			return nil, fmt.Errorf("build classification schema: %w", err)
		}
		schema = custom
	}

	imageNormalizer := normalizer.New(cfg.PDFRenderDPI, cfg.PDFMaxPages)

	visionClient := openai.New(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})

	policy := resilience.Policy{
		RetryAttempts:  cfg.RetryMaxAttempts,
		RetryBaseDelay: cfg.RetryInitialBackoff,
		RetryMaxDelay:  cfg.RetryMaxBackoff,

		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      cfg.BreakerMinRequests,
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      cfg.BreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: cfg.BreakerHalfOpenMaxCalls,
	}
	executor := resilience.NewExecutor("classify_document", policy, usecase.RetryVerdict)

	classifyUC := usecase.NewClassifyDocumentUseCase(
		imageNormalizer,
		visionClient,
		schema,
		usecase.PagePolicy{MaxPages: cfg.ClassifyMaxPages},
		cfg.ClassifyTimeout,
		executor,
	)

	return &App{
		Config:     cfg,
		Classifier: classifyUC,
		Metrics:    metrics.NewServerMetrics("api"),
	}, nil
}
