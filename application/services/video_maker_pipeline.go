package services

import (
	"context"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type videoMakerPipeline struct {
	logger         outbound.LoggerPort
	workerPool     outbound.TaskDispatcher
	dispatcher     inbound.AssetDispatcherPort
	assembler      inbound.VideoAssemblerPort
	videoPublisher outbound.VideoPublisherPort
}

// NewVideoMakerPipeline wires fetching, assembly and publishing. A nil
// videoPublisher leaves the video on local disk.
func NewVideoMakerPipeline(
	logger outbound.LoggerPort,
	workerPool outbound.TaskDispatcher,
	dispatcher inbound.AssetDispatcherPort,
	assembler inbound.VideoAssemblerPort,
	videoPublisher outbound.VideoPublisherPort) inbound.VideoMakerPipelinePort {
	return &videoMakerPipeline{
		logger:         logger,
		workerPool:     workerPool,
		dispatcher:     dispatcher,
		assembler:      assembler,
		videoPublisher: videoPublisher,
	}
}

func (s *videoMakerPipeline) StartPipeline(ctx context.Context, params inbound.StartPipelineParams) (<-chan domain.PipelineEvent, <-chan error) {
	out := make(chan domain.PipelineEvent)
	errCh := make(chan error, 1)

	err := s.workerPool.Submit(func() {
		defer close(errCh)
		defer close(out)

		if err := s.run(ctx, params, out); err != nil {
			s.logger.ErrorWithFields(err, "Pipeline failed", map[string]interface{}{
				"run_id": params.RunID,
			})
			errCh <- err
		}
	})
	if err != nil {
		close(out)
		errCh <- err
		close(errCh)
	}

	return out, errCh
}

func (s *videoMakerPipeline) run(ctx context.Context, params inbound.StartPipelineParams, out chan<- domain.PipelineEvent) error {
	if err := params.Shots.Validate(); err != nil {
		return err
	}

	s.logger.InfoWithFields("Starting pipeline", map[string]interface{}{
		"run_id": params.RunID,
		"scenes": len(params.Shots),
	})

	progressCh, err := s.dispatcher.Dispatch(ctx, params.Shots)
	if err != nil {
		return err
	}
	for progress := range progressCh {
		progress := progress
		s.emit(ctx, out, domain.PipelineEvent{
			Type:     domain.AssetProgressEventType,
			RunID:    params.RunID,
			Progress: &progress,
		})
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.emit(ctx, out, domain.PipelineEvent{
		Type:  domain.AssemblyStartedEventType,
		RunID: params.RunID,
	})

	result, err := s.assembler.Assemble(ctx, inbound.AssembleParams{
		Shots:      params.Shots,
		OutputFile: params.OutputFile,
	})
	if err != nil {
		return err
	}

	complete := domain.PipelineEvent{
		Type:   domain.GenerationCompleteEventType,
		RunID:  params.RunID,
		Result: result,
	}
	if result == nil {
		complete.Message = "no scene had both audio and a visual; nothing was rendered"
	} else if s.videoPublisher != nil {
		published, err := s.videoPublisher.Publish(ctx, outbound.PublishVideoRequest{
			VideoFileName: result.OutputFile,
			RunID:         params.RunID,
		})
		if err != nil {
			return err
		}
		complete.VideoKey = published.VideoKey
	}

	s.emit(ctx, out, complete)
	return nil
}

// emit drops the event when the consumer has gone away.
func (s *videoMakerPipeline) emit(ctx context.Context, out chan<- domain.PipelineEvent, event domain.PipelineEvent) {
	select {
	case out <- event:
	case <-ctx.Done():
	}
}
