package adapters

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
)

func testRenderer(t *testing.T) (*ffmpegVideoRenderer, *[][]string) {
	t.Helper()
	var calls [][]string
	renderer := &ffmpegVideoRenderer{
		logger: NewZerologWrapperWithWriter(&strings.Builder{}, "error"),
		config: config.AssemblerConfig{
			Width:        1280,
			Height:       720,
			FPS:          24,
			MusicVolume:  0.1,
			KenBurnsZoom: 0.1,
			FontSize:     30,
		},
	}
	renderer.run = func(_ context.Context, name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	return renderer, &calls
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestKenBurnsCrop_KeepsFrameSizeAndCentre(t *testing.T) {
	width, height, duration, zoom := 1280, 720, 6.0, 0.1

	for _, tm := range []float64{0, 1.5, 3, 6, 9} {
		scale := KenBurnsScale(tm, duration, zoom)
		crop := KenBurnsCrop(width, height, scale)

		if crop.Width != float64(width) || crop.Height != float64(height) {
			t.Fatalf("t=%.1f: crop %vx%v differs from the output frame size", tm, crop.Width, crop.Height)
		}
		scaledW, scaledH := float64(width)*scale, float64(height)*scale
		if math.Abs(crop.X+crop.Width/2-scaledW/2) > 1e-9 || math.Abs(crop.Y+crop.Height/2-scaledH/2) > 1e-9 {
			t.Fatalf("t=%.1f: crop is not centred", tm)
		}
		if crop.X < 0 || crop.Y < 0 || crop.X+crop.Width > scaledW+1e-9 {
			t.Fatalf("t=%.1f: crop leaves the scaled frame", tm)
		}
	}

	if got := KenBurnsScale(duration, duration, zoom); math.Abs(got-1.1) > 1e-9 {
		t.Fatalf("expected final scale 1.1, got %f", got)
	}
	if got := KenBurnsScale(0, duration, zoom); got != 1 {
		t.Fatalf("expected initial scale 1, got %f", got)
	}
}

func TestFFMPEGVideoRenderer_ImageSceneArgs(t *testing.T) {
	renderer, calls := testRenderer(t)
	output := filepath.Join(t.TempDir(), "scene_1.mp4")
	record := renderer.run
	var captionText string
	renderer.run = func(ctx context.Context, name string, args ...string) error {
		content, err := os.ReadFile(output + ".caption.txt")
		if err != nil {
			t.Fatal("Failed to read caption file:", err)
		}
		captionText = string(content)
		return record(ctx, name, args...)
	}

	err := renderer.RenderScene(context.Background(), outbound.RenderSceneRequest{
		Clip: outbound.SceneClip{
			SceneNumber: 1,
			VisualPath:  "visual_assets/scene_1.png",
			IsImage:     true,
			AudioPath:   "audio_clips/scene_1.mp3",
			Duration:    4.5,
			Caption:     []string{"Sales grew 40% last year", `C:\reports\q4`},
		},
		OutputFile: output,
	})
	if err != nil {
		t.Fatal("Failed to render scene:", err)
	}

	args := (*calls)[0]
	if argValue(args, "-loop") != "1" {
		t.Fatal("expected the image to be looped")
	}
	if argValue(args, "-t") != "4.5" {
		t.Fatalf("expected the clip forced to 4.5s, got %s", argValue(args, "-t"))
	}
	graph := argValue(args, "-filter_complex")
	for _, want := range []string{"eval=frame", "crop=1280:720", "t/4.5", "drawtext=", "expansion=none", "boxcolor=black@0.6", "y=h-text_h-20", "fontsize=30"} {
		if !strings.Contains(graph, want) {
			t.Errorf("expected %q in filter graph %s", want, graph)
		}
	}
	if argValue(args, "-c:v") != "libx264" || argValue(args, "-c:a") != "aac" || argValue(args, "-r") != "24" {
		t.Fatal("expected libx264/aac at 24 fps")
	}
	if captionText != "Sales grew 40% last year\n"+`C:\reports\q4` {
		t.Fatalf("expected the caption written verbatim, got %q", captionText)
	}
	if _, err := os.Stat(output + ".caption.txt"); !os.IsNotExist(err) {
		t.Fatal("expected the caption file removed after rendering")
	}
}

func TestFFMPEGVideoRenderer_VideoSceneHoldsLastFrame(t *testing.T) {
	renderer, calls := testRenderer(t)

	err := renderer.RenderScene(context.Background(), outbound.RenderSceneRequest{
		Clip: outbound.SceneClip{
			VisualPath: "visual_assets/scene_2.mp4",
			AudioPath:  "audio_clips/scene_2.mp3",
			Duration:   7,
		},
		OutputFile: filepath.Join(t.TempDir(), "scene_2.mp4"),
	})
	if err != nil {
		t.Fatal("Failed to render scene:", err)
	}

	args := (*calls)[0]
	graph := argValue(args, "-filter_complex")
	if !strings.Contains(graph, "tpad=stop_mode=clone:stop_duration=7") || !strings.Contains(graph, "trim=duration=7") {
		t.Fatalf("expected the video padded and trimmed to 7s, got %s", graph)
	}
	if strings.Contains(graph, "drawtext") {
		t.Fatal("expected no caption without text")
	}
	if argValue(args, "-loop") != "" {
		t.Fatal("expected no looping for a video source")
	}
}

func TestFFMPEGVideoRenderer_ComposeCrossFadesAndMixesMusic(t *testing.T) {
	renderer, calls := testRenderer(t)

	err := renderer.Compose(context.Background(), outbound.ComposeRequest{
		ClipFiles:  []string{"a.mp4", "b.mp4", "c.mp4"},
		Durations:  []float64{4, 5, 6},
		Starts:     []float64{0, 3, 7},
		Transition: 1,
		Total:      13,
		MusicFile:  "music.mp3",
		OutputFile: "final.mp4",
	})
	if err != nil {
		t.Fatal("Failed to compose:", err)
	}

	args := (*calls)[0]
	graph := argValue(args, "-filter_complex")
	for _, want := range []string{
		"[0:v][1:v]xfade=transition=fade:duration=1:offset=3[v1]",
		"[v1][2:v]xfade=transition=fade:duration=1:offset=7[vout]",
		"[1:a]adelay=delays=3000:all=1[a1]",
		"amix=inputs=3:duration=longest:normalize=0,atrim=duration=13[narration]",
		"[3:a]atrim=duration=13,volume=0.1[music]",
		"[narration][music]amix=inputs=2:duration=first:normalize=0[aout]",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("expected %q in filter graph %s", want, graph)
		}
	}
	if argValue(args, "-stream_loop") != "-1" {
		t.Fatal("expected the music to loop")
	}
	if argValue(args, "-t") != "13" || args[len(args)-1] != "final.mp4" {
		t.Fatalf("unexpected output arguments %v", args)
	}
}

func TestFFMPEGVideoRenderer_ComposeWithoutMusic(t *testing.T) {
	renderer, calls := testRenderer(t)

	err := renderer.Compose(context.Background(), outbound.ComposeRequest{
		ClipFiles:  []string{"a.mp4"},
		Durations:  []float64{4},
		Starts:     []float64{0},
		Total:      4,
		OutputFile: "final.mp4",
	})
	if err != nil {
		t.Fatal("Failed to compose:", err)
	}

	args := (*calls)[0]
	graph := argValue(args, "-filter_complex")
	if strings.Contains(graph, "[music]") || argValue(args, "-stream_loop") != "" {
		t.Fatalf("expected narration only, got %s", graph)
	}
	if !strings.Contains(graph, "[0:v]null[vout]") || !strings.Contains(graph, "atrim=duration=4[aout]") {
		t.Fatalf("unexpected single clip graph %s", graph)
	}
}

func TestFFMPEGVideoRenderer_ComposeWithoutTransitionConcatenates(t *testing.T) {
	renderer, calls := testRenderer(t)

	err := renderer.Compose(context.Background(), outbound.ComposeRequest{
		ClipFiles:  []string{"a.mp4", "b.mp4"},
		Durations:  []float64{2, 3},
		Starts:     []float64{0, 2},
		Total:      5,
		OutputFile: "final.mp4",
	})
	if err != nil {
		t.Fatal("Failed to compose:", err)
	}

	if graph := argValue((*calls)[0], "-filter_complex"); !strings.Contains(graph, "[0:v][1:v]concat=n=2:v=1:a=0[vout]") {
		t.Fatalf("expected a plain concat, got %s", graph)
	}
}
