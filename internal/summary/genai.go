package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

// GenAI summarizes through the Gemini API.
type GenAI struct {
	client *genai.Client
	model  string
	logger *zap.Logger
	now    func() time.Time
}

func NewGenAI(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAI{
		client: client,
		model:  model,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (g *GenAI) Summarize(ctx context.Context, req Request) (Response, error) {
	prompt, err := renderPrompt(req, g.now())
	if err != nil {
		return Response{}, fmt.Errorf("render prompt: %w", err)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary": {Type: genai.TypeString},
			},
			Required: []string{"summary"},
		},
	})
	if err != nil {
		g.logger.Error("summary request failed", zap.String("model", g.model), zap.Error(err))
		return Response{}, fmt.Errorf("GenAI generate failed: %w", err)
	}

	return parseResponse(result.Text())
}

// parseResponse accepts the structured {"summary": ...} output and falls
// back to the raw text when the model ignored the schema.
func parseResponse(text string) (Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Response{}, errors.New("empty summary response")
	}
	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err == nil && resp.Summary != "" {
		return resp, nil
	}
	return Response{Summary: text}, nil
}
