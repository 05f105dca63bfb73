package inbound

import (
	"context"

	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type StartPipelineParams struct {
	RunID      string
	Shots      domain.ShotList
	OutputFile string
}

type VideoMakerPipelinePort interface {
	StartPipeline(ctx context.Context, params StartPipelineParams) (<-chan domain.PipelineEvent, <-chan error)
}
