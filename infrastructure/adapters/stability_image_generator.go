package adapters

import (
	"context"
	"io"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
)

const stabilityImagePath = "/stable-image/generate/sd3"

type stabilityImageGenerator struct {
	ContentFetcher
	logger          outbound.LoggerPort
	stabilityConfig *config.StabilityConfig
}

func NewStabilityImageGenerator(contentFetcher ContentFetcher, stabilityConfig *config.StabilityConfig, logger outbound.LoggerPort) outbound.ImageGeneratorPort {
	return &stabilityImageGenerator{
		ContentFetcher:  contentFetcher,
		logger:          logger,
		stabilityConfig: stabilityConfig,
	}
}

func (i *stabilityImageGenerator) Generate(ctx context.Context, prompt string) (io.ReadCloser, error) {
	req, err := newStabilityFormRequest(ctx, i.stabilityConfig, stabilityImagePath, "image/*", [][2]string{
		{"prompt", prompt},
		{"aspect_ratio", i.stabilityConfig.AspectRatio},
		{"output_format", "png"},
	})
	if err != nil {
		i.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	return i.OpenStream(req)
}
