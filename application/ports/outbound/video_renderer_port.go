package outbound

import "context"

// SceneClip is one scene ready to be rendered: its visual, its narration and
// the caption burned over it.
type SceneClip struct {
	SceneNumber int
	VisualPath  string
	IsImage     bool
	AudioPath   string
	Duration    float64
	Caption     []string
}

type RenderSceneRequest struct {
	Clip       SceneClip
	OutputFile string
}

type ComposeRequest struct {
	ClipFiles  []string
	Durations  []float64
	Starts     []float64
	Transition float64
	Total      float64
	MusicFile  string
	OutputFile string
}

type VideoRendererPort interface {
	RenderScene(ctx context.Context, req RenderSceneRequest) error
	Compose(ctx context.Context, req ComposeRequest) error
}
