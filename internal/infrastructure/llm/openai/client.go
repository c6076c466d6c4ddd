// Package openai implements the classification requester against the OpenAI
// chat completions API. The request carries the classification schema as a
// strict json_schema response format, so the model can only answer with an
// enumerated category; the raw payload is returned untouched for validation.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ekuzmichev/document-classifier/internal/core/domain"
)

const (
	systemPrompt = "You are an expert at classifying documents and understanding their contents."
	userPrompt   = "Analyze this image and provide the document_type and notes on the content."
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	api   *sdk.Client
	model string
}

func New(cfg Config) *Client {
	clientConfig := sdk.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" {
		model = sdk.GPT4oMini
	}
	return &Client{
		api:   sdk.NewClientWithConfig(clientConfig),
		model: model,
	}
}

func (c *Client) ClassifyImages(ctx context.Context, images []domain.CanonicalImage, schema domain.ClassificationSchema) (json.RawMessage, error) {
	if len(images) == 0 {
		return nil, domain.WrapError(domain.ErrDecodeFailure, "build request", fmt.Errorf("no images to submit"))
	}

	parts := make([]sdk.ChatMessagePart, 0, len(images)+1)
	parts = append(parts, sdk.ChatMessagePart{
		Type: sdk.ChatMessagePartTypeText,
		Text: userPrompt,
	})
	for _, image := range images {
		parts = append(parts, sdk.ChatMessagePart{
			Type: sdk.ChatMessagePartTypeImageURL,
			ImageURL: &sdk.ChatMessageImageURL{
				URL:    dataURL(image),
				Detail: sdk.ImageURLDetailAuto,
			},
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, sdk.ChatCompletionRequest{
		Model: c.model,
		Messages: []sdk.ChatCompletionMessage{
			{Role: sdk.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: sdk.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: responseFormat(schema),
	})
	if err != nil {
		return nil, translateError("chat completion", err)
	}

	if len(resp.Choices) == 0 {
		return nil, domain.WrapError(domain.ErrMalformedResponse, "chat completion", fmt.Errorf("no choices in response"))
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, domain.WrapError(domain.ErrMalformedResponse, "chat completion", fmt.Errorf("empty completion content"))
	}
	return json.RawMessage(content), nil
}

func dataURL(image domain.CanonicalImage) string {
	return fmt.Sprintf("data:%s;base64,%s", image.MIMEType, base64.StdEncoding.EncodeToString(image.Data))
}

// responseFormat turns the schema into the strict structured-output
// constraint. The enum on document_type is what keeps the model from
// answering in free text.
func responseFormat(schema domain.ClassificationSchema) *sdk.ChatCompletionResponseFormat {
	return &sdk.ChatCompletionResponseFormat{
		Type: sdk.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &sdk.ChatCompletionResponseFormatJSONSchema{
			Name:   "document_analysis",
			Strict: true,
			Schema: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"document_type": {
						Type: jsonschema.String,
						Enum: schema.Categories,
					},
					"notes": {
						Type: jsonschema.String,
					},
				},
				Required:             []string{"document_type", "notes"},
				AdditionalProperties: false,
			},
		},
	}
}
