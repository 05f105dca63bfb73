package outbound

import (
	"context"
	"io"
)

type GenerateAudioRequest struct {
	Text string
}

// AudioGeneratorPort turns narration into mp3 audio. The caller closes the
// returned stream.
type AudioGeneratorPort interface {
	Generate(ctx context.Context, req GenerateAudioRequest) (io.ReadCloser, error)
}
