package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// Model produces the raw JSON text of a session for a request.
type Model interface {
	GenerateJSON(ctx context.Context, req Request) (string, error)
}

// GeminiModel implements Model with the Gemini API.
type GeminiModel struct {
	apiKey  string
	model   string
	baseURL string

	once   sync.Once
	client *genai.Client
	err    error
}

// NewGeminiModel stores the client settings. The genai client needs a context,
// so it is created on first use. An empty baseURL uses the public endpoint.
// apiKey is cleaned the same way Generator cleans its copy.
func NewGeminiModel(apiKey, model, baseURL string) *GeminiModel {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiModel{apiKey: CleanCredential(apiKey), model: model, baseURL: baseURL}
}

// Name returns the model name sent to the API.
func (g *GeminiModel) Name() string {
	return g.model
}

func (g *GeminiModel) genaiClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
		}
		g.client, g.err = genai.NewClient(ctx, cfg)
	})
	return g.client, g.err
}

// GenerateJSON implements Model.
func (g *GeminiModel) GenerateJSON(ctx context.Context, req Request) (string, error) {
	client, err := g.genaiClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.UserMessage), config)
	if err != nil {
		return "", fmt.Errorf("calling gemini: %w", err)
	}
	if result == nil {
		return "", errors.New("empty response from gemini")
	}
	return result.Text(), nil
}
