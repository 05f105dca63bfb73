package inbound

import (
	"context"

	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type AssembleParams struct {
	Shots      domain.ShotList
	OutputFile string
}

type VideoAssemblerPort interface {
	// Assemble returns a nil result when no scene has both audio and a visual.
	Assemble(ctx context.Context, params AssembleParams) (*domain.AssemblyResult, error)
}
