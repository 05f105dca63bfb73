package outbound

import "context"

type MediaProberPort interface {
	Duration(ctx context.Context, path string) (float64, error)
}
