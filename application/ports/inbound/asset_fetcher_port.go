package inbound

import (
	"context"

	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

// AssetFetcherPort materializes one asset of a scene at its deterministic
// path. Fetching an asset that is already complete makes no remote call.
type AssetFetcherPort interface {
	Kind() domain.AssetKind
	Fetch(ctx context.Context, scene domain.Scene) error
}
