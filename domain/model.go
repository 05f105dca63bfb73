package domain

type EventType string

const (
	AssetProgressEventType      EventType = "asset_progress"
	AssemblyStartedEventType    EventType = "assembly_started"
	GenerationCompleteEventType EventType = "generation_complete"
	ErrorEventType              EventType = "error"
)

type ProgressEvent struct {
	Completed   int       `json:"completed"`
	Total       int       `json:"total"`
	Fraction    float64   `json:"fraction"`
	SceneNumber int       `json:"scene_number"`
	Kind        AssetKind `json:"kind"`
	Error       string    `json:"error,omitempty"`
}

type AssemblyResult struct {
	OutputFile          string  `json:"output_file"`
	SceneNumbers        []int   `json:"scene_numbers"`
	SkippedSceneNumbers []int   `json:"skipped_scene_numbers"`
	DurationSeconds     float64 `json:"duration_seconds"`
	MusicMixed          bool    `json:"music_mixed"`
}

type PipelineEvent struct {
	Type     EventType       `json:"type"`
	RunID    string          `json:"run_id"`
	Progress *ProgressEvent  `json:"progress,omitempty"`
	Result   *AssemblyResult `json:"result,omitempty"`
	VideoKey string          `json:"video_key,omitempty"`
	Message  string          `json:"message,omitempty"`
}

type MessageEvent struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}
