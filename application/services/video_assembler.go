package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"github.com/google/uuid"
)

type videoAssembler struct {
	logger   outbound.LoggerPort
	layout   domain.AssetLayout
	prober   outbound.MediaProberPort
	renderer outbound.VideoRendererPort
	config   config.AssemblerConfig
}

func NewVideoAssembler(logger outbound.LoggerPort, layout domain.AssetLayout, prober outbound.MediaProberPort,
	renderer outbound.VideoRendererPort, assemblerConfig config.AssemblerConfig) inbound.VideoAssemblerPort {
	return &videoAssembler{
		logger:   logger,
		layout:   layout,
		prober:   prober,
		renderer: renderer,
		config:   assemblerConfig,
	}
}

// AssemblyPlan is the ordered list of renderable scenes plus the scenes that
// were left out for lack of audio or a visual.
type AssemblyPlan struct {
	Clips   []outbound.SceneClip
	Skipped []int
}

func (a *videoAssembler) Assemble(ctx context.Context, params inbound.AssembleParams) (*domain.AssemblyResult, error) {
	plan, err := a.Plan(ctx, params.Shots)
	if err != nil {
		return nil, err
	}
	if len(plan.Clips) == 0 {
		a.logger.WarnWithFields("No scene has both audio and a visual, nothing to assemble", map[string]interface{}{
			"skipped": plan.Skipped,
		})
		return nil, nil
	}

	workDir, err := os.MkdirTemp(a.config.WorkDir, "assemble-"+uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			a.logger.Error(err, "Failed to remove work directory")
		}
	}()

	clipFiles := make([]string, 0, len(plan.Clips))
	durations := make([]float64, 0, len(plan.Clips))
	sceneNumbers := make([]int, 0, len(plan.Clips))
	for _, clip := range plan.Clips {
		clipFile := filepath.Join(workDir, fmt.Sprintf("scene_%d.mp4", clip.SceneNumber))
		a.logger.DebugWithFields("Rendering scene clip", map[string]interface{}{
			"scene_number": clip.SceneNumber,
			"duration":     clip.Duration,
			"image":        clip.IsImage,
		})
		if err := a.renderer.RenderScene(ctx, outbound.RenderSceneRequest{Clip: clip, OutputFile: clipFile}); err != nil {
			a.logger.ErrorWithFields(err, "Failed to render scene clip", map[string]interface{}{
				"scene_number": clip.SceneNumber,
			})
			return nil, fmt.Errorf("failed to render scene %d: %w", clip.SceneNumber, err)
		}
		clipFiles = append(clipFiles, clipFile)
		durations = append(durations, clip.Duration)
		sceneNumbers = append(sceneNumbers, clip.SceneNumber)
	}

	timeline := domain.NewTimeline(durations, a.config.TransitionSeconds)
	musicFile := a.musicFile()

	outputFile := params.OutputFile
	if dir := filepath.Dir(outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	err = a.renderer.Compose(ctx, outbound.ComposeRequest{
		ClipFiles:  clipFiles,
		Durations:  timeline.Durations,
		Starts:     timeline.Starts,
		Transition: timeline.Transition,
		Total:      timeline.Total,
		MusicFile:  musicFile,
		OutputFile: outputFile,
	})
	if err != nil {
		a.logger.Error(err, "Failed to compose final video")
		return nil, fmt.Errorf("failed to compose final video: %w", err)
	}

	result := &domain.AssemblyResult{
		OutputFile:          outputFile,
		SceneNumbers:        sceneNumbers,
		SkippedSceneNumbers: plan.Skipped,
		DurationSeconds:     timeline.Total,
		MusicMixed:          musicFile != "",
	}
	a.logger.InfoWithFields("Video assembled", map[string]interface{}{
		"output_file": outputFile,
		"scenes":      len(sceneNumbers),
		"skipped":     len(plan.Skipped),
		"duration":    timeline.Total,
		"music":       result.MusicMixed,
	})
	return result, nil
}

// Plan walks the scenes in scene-number order and decides what each one is
// rendered from. Video wins over image; a scene without audio or any visual
// is skipped.
func (a *videoAssembler) Plan(ctx context.Context, shots domain.ShotList) (*AssemblyPlan, error) {
	plan := &AssemblyPlan{Skipped: []int{}}
	lineLength := CaptionLineLength(a.config.Width, a.config.FontSize)

	for _, scene := range shots.Sorted() {
		audioPath := a.layout.AudioPath(scene.SceneNumber)
		if !fileExists(audioPath) {
			a.logger.WarnWithFields("Scene has no audio, skipping", map[string]interface{}{
				"scene_number": scene.SceneNumber,
			})
			plan.Skipped = append(plan.Skipped, scene.SceneNumber)
			continue
		}

		clip := outbound.SceneClip{
			SceneNumber: scene.SceneNumber,
			AudioPath:   audioPath,
			Caption:     WrapCaption(scene.NarrationText, lineLength),
		}
		switch videoPath, imagePath := a.layout.VideoPath(scene.SceneNumber), a.layout.ImagePath(scene.SceneNumber); {
		case fileExists(videoPath):
			clip.VisualPath = videoPath
		case fileExists(imagePath):
			clip.VisualPath = imagePath
			clip.IsImage = true
		default:
			a.logger.WarnWithFields("Scene has no visual, skipping", map[string]interface{}{
				"scene_number": scene.SceneNumber,
			})
			plan.Skipped = append(plan.Skipped, scene.SceneNumber)
			continue
		}

		duration, err := a.prober.Duration(ctx, audioPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read audio duration of scene %d: %w", scene.SceneNumber, err)
		}
		if duration <= 0 {
			return nil, fmt.Errorf("audio of scene %d has no duration", scene.SceneNumber)
		}
		clip.Duration = duration
		plan.Clips = append(plan.Clips, clip)
	}
	return plan, nil
}

func (a *videoAssembler) musicFile() string {
	if a.config.MusicFile == "" {
		return ""
	}
	if !fileExists(a.config.MusicFile) {
		a.logger.InfoWithFields("Background music not found, using narration only", map[string]interface{}{
			"music_file": a.config.MusicFile,
		})
		return ""
	}
	return a.config.MusicFile
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
