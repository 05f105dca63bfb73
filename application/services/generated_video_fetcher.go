package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type generatedVideoFetcher struct {
	writer    *assetWriter
	logger    outbound.LoggerPort
	generator outbound.VideoGeneratorPort
	polling   config.PollingConfig
}

func NewGeneratedVideoFetcher(logger outbound.LoggerPort, manifest outbound.AssetManifestPort, layout domain.AssetLayout,
	generator outbound.VideoGeneratorPort, polling config.PollingConfig) inbound.AssetFetcherPort {
	return &generatedVideoFetcher{
		writer:    newAssetWriter(logger, manifest, layout),
		logger:    logger,
		generator: generator,
		polling:   polling,
	}
}

func (f *generatedVideoFetcher) Kind() domain.AssetKind {
	return domain.VideoAssetKind
}

func (f *generatedVideoFetcher) Fetch(ctx context.Context, scene domain.Scene) error {
	return f.writer.write(ctx, scene, domain.VideoAssetKind, "stability", func(ctx context.Context) (io.ReadCloser, error) {
		jobID, err := f.generator.Submit(ctx, scene.VisualPrompt)
		if err != nil {
			return nil, err
		}

		body, outcome, err := f.await(ctx, jobID)
		f.logger.InfoWithFields("Video generation job finished", map[string]interface{}{
			"scene_number": scene.SceneNumber,
			"job_id":       jobID,
			"outcome":      outcome,
		})
		return body, err
	})
}

// await polls the job until it is ready, rejected, or the optional polling
// timeout runs out. A zero timeout polls until ctx is done. The ready body is
// read under ctx, not the polling deadline.
func (f *generatedVideoFetcher) await(ctx context.Context, jobID string) (io.ReadCloser, domain.VideoJobOutcome, error) {
	pollCtx, cancel := ctx, context.CancelFunc(func() {})
	if f.polling.Timeout > 0 {
		pollCtx, cancel = context.WithTimeout(ctx, f.polling.Timeout)
	}
	defer cancel()
	interval := f.polling.Interval

	for attempt := 1; ; attempt++ {
		timer := time.NewTimer(interval)
		select {
		case <-pollCtx.Done():
			timer.Stop()
			return nil, f.stopOutcome(ctx), f.stopError(ctx, jobID)
		case <-timer.C:
		}

		result, err := f.generator.Poll(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, f.stopOutcome(ctx), f.stopError(ctx, jobID)
			}
			return nil, domain.VideoJobFailed, err
		}

		switch result.Status {
		case outbound.VideoJobDone:
			return result.Body, domain.VideoJobReady, nil
		case outbound.VideoJobProcessing:
			f.logger.DebugWithFields("Video generation still in progress", map[string]interface{}{
				"job_id":   jobID,
				"attempt":  attempt,
				"interval": interval.String(),
			})
		default:
			return nil, domain.VideoJobFailed, fmt.Errorf("%w: job %s returned status %d", domain.ErrVideoJobFailed, jobID, result.StatusCode)
		}

		interval = NextPollInterval(interval, f.polling)
	}
}

// NextPollInterval grows the wait geometrically, capped at MaxInterval.
func NextPollInterval(current time.Duration, polling config.PollingConfig) time.Duration {
	next := time.Duration(float64(current) * polling.BackoffMultiplier)
	if polling.MaxInterval > 0 && next > polling.MaxInterval {
		return polling.MaxInterval
	}
	if next < current {
		return current
	}
	return next
}
