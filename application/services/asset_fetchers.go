package services

import (
	"context"
	"io"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type audioFetcher struct {
	writer    *assetWriter
	generator outbound.AudioGeneratorPort
	provider  string
}

func NewAudioFetcher(logger outbound.LoggerPort, manifest outbound.AssetManifestPort, layout domain.AssetLayout,
	generator outbound.AudioGeneratorPort, provider string) inbound.AssetFetcherPort {
	return &audioFetcher{
		writer:    newAssetWriter(logger, manifest, layout),
		generator: generator,
		provider:  provider,
	}
}

func (f *audioFetcher) Kind() domain.AssetKind {
	return domain.AudioAssetKind
}

func (f *audioFetcher) Fetch(ctx context.Context, scene domain.Scene) error {
	return f.writer.write(ctx, scene, domain.AudioAssetKind, f.provider, func(ctx context.Context) (io.ReadCloser, error) {
		return f.generator.Generate(ctx, outbound.GenerateAudioRequest{Text: scene.NarrationText})
	})
}

type imageFetcher struct {
	writer    *assetWriter
	generator outbound.ImageGeneratorPort
}

func NewImageFetcher(logger outbound.LoggerPort, manifest outbound.AssetManifestPort, layout domain.AssetLayout,
	generator outbound.ImageGeneratorPort) inbound.AssetFetcherPort {
	return &imageFetcher{
		writer:    newAssetWriter(logger, manifest, layout),
		generator: generator,
	}
}

func (f *imageFetcher) Kind() domain.AssetKind {
	return domain.ImageAssetKind
}

func (f *imageFetcher) Fetch(ctx context.Context, scene domain.Scene) error {
	return f.writer.write(ctx, scene, domain.ImageAssetKind, "stability", func(ctx context.Context) (io.ReadCloser, error) {
		return f.generator.Generate(ctx, scene.VisualPrompt)
	})
}

type stockFootageFetcher struct {
	writer *assetWriter
	logger outbound.LoggerPort
	stock  outbound.StockFootagePort
}

func NewStockFootageFetcher(logger outbound.LoggerPort, manifest outbound.AssetManifestPort, layout domain.AssetLayout,
	stock outbound.StockFootagePort) inbound.AssetFetcherPort {
	return &stockFootageFetcher{
		writer: newAssetWriter(logger, manifest, layout),
		logger: logger,
		stock:  stock,
	}
}

func (f *stockFootageFetcher) Kind() domain.AssetKind {
	return domain.VideoAssetKind
}

func (f *stockFootageFetcher) Fetch(ctx context.Context, scene domain.Scene) error {
	return f.writer.write(ctx, scene, domain.VideoAssetKind, "pexels", func(ctx context.Context) (io.ReadCloser, error) {
		clip, err := f.stock.Search(ctx, scene.VisualPrompt)
		if err != nil || clip == nil {
			return nil, err
		}
		f.logger.DebugWithFields("Stock clip selected", map[string]interface{}{
			"scene_number": scene.SceneNumber,
			"clip_id":      clip.ID,
			"width":        clip.Width,
			"height":       clip.Height,
		})
		return f.stock.Download(ctx, *clip)
	})
}
