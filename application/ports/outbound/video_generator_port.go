package outbound

import (
	"context"
	"io"
)

type VideoJobStatus string

const (
	VideoJobProcessing VideoJobStatus = "processing"
	VideoJobDone       VideoJobStatus = "done"
	VideoJobRejected   VideoJobStatus = "rejected"
)

// VideoJobResult is a single poll of an asynchronous generation job. Body is
// set only when Status is VideoJobDone and must be closed by the caller.
type VideoJobResult struct {
	Status     VideoJobStatus
	StatusCode int
	Body       io.ReadCloser
}

type VideoGeneratorPort interface {
	Submit(ctx context.Context, prompt string) (string, error)
	Poll(ctx context.Context, jobID string) (*VideoJobResult, error)
}
