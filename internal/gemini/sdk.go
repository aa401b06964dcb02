package gemini

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// SDKClient calls the Gemini API through the official Go SDK.
type SDKClient struct {
	client *genai.Client
	logger *zap.Logger
}

// NewSDKClient creates a Gemini-backed client. apiKey must be non-empty.
func NewSDKClient(ctx context.Context, apiKey string, logger *zap.Logger) (*SDKClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &SDKClient{client: client, logger: logger}, nil
}

// GenerateContent performs one generate-content call and returns the raw
// response text. Empty text with a nil error is possible and is the
// caller's signal of a generation failure.
func (c *SDKClient) GenerateContent(ctx context.Context, req *Request) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := m.Role
		if role == "" {
			role = genai.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}

	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	if req.JSONResponse {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}
