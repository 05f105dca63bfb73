package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
	"google.golang.org/genai"
)

type geminiSceneBreakdown struct {
	logger       outbound.LoggerPort
	client       *genai.Client
	geminiConfig *config.GeminiConfig
}

func NewGeminiSceneBreakdown(ctx context.Context, geminiConfig *config.GeminiConfig, logger outbound.LoggerPort) (outbound.SceneBreakdownPort, error) {
	return newGeminiSceneBreakdown(ctx, geminiConfig, logger, genai.HTTPOptions{})
}

func newGeminiSceneBreakdown(ctx context.Context, geminiConfig *config.GeminiConfig, logger outbound.LoggerPort, httpOptions genai.HTTPOptions) (outbound.SceneBreakdownPort, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      geminiConfig.ApiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		logger.Error(err, "Failed to create the Gemini client")
		return nil, err
	}

	return &geminiSceneBreakdown{
		logger:       logger,
		client:       client,
		geminiConfig: geminiConfig,
	}, nil
}

func (g *geminiSceneBreakdown) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.geminiConfig.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		g.logger.ErrorWithFields(err, "Gemini request failed", map[string]interface{}{
			"model": g.geminiConfig.Model,
		})
		return "", err
	}
	if result == nil {
		return "", errors.New("genai: empty generate response")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("genai: response has no text")
	}
	return text, nil
}
