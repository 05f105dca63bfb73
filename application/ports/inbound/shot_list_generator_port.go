package inbound

import (
	"context"

	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type ShotListGeneratorPort interface {
	Generate(ctx context.Context, script string) (domain.ShotList, error)
}
