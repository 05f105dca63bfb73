package outbound

import (
	"context"
	"io"
)

type ImageGeneratorPort interface {
	Generate(ctx context.Context, prompt string) (io.ReadCloser, error)
}
