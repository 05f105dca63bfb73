package inbound

import (
	"context"

	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type AssetDispatcherPort interface {
	// Dispatch returns progress in completion order. The channel is closed
	// once every task has finished.
	Dispatch(ctx context.Context, shots domain.ShotList) (<-chan domain.ProgressEvent, error)
}
