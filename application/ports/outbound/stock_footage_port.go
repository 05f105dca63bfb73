package outbound

import (
	"context"
	"io"
)

type StockClip struct {
	ID     int
	Width  int
	Height int
	Link   string
}

type StockFootagePort interface {
	// Search returns nil with no error when nothing matches the query.
	Search(ctx context.Context, query string) (*StockClip, error)
	Download(ctx context.Context, clip StockClip) (io.ReadCloser, error)
}
