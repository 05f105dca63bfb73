package outbound

import (
	"context"

	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type AssetManifestPort interface {
	// Get returns nil with no error when the asset has no record.
	Get(ctx context.Context, key domain.AssetKey) (*domain.AssetRecord, error)
	Put(ctx context.Context, record domain.AssetRecord) error
}
