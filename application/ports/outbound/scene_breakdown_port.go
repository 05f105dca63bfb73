package outbound

import "context"

// SceneBreakdownPort sends a prompt to a language model and returns its raw
// JSON text.
type SceneBreakdownPort interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
