package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
)

const (
	captionBottomMargin = 20
	captionBoxColor     = "black@0.6"
	audioBitrate        = "192k"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

type ffmpegVideoRenderer struct {
	logger outbound.LoggerPort
	config config.AssemblerConfig
	run    commandRunner
}

func NewFFMPEGVideoRenderer(logger outbound.LoggerPort, assemblerConfig config.AssemblerConfig) outbound.VideoRendererPort {
	renderer := &ffmpegVideoRenderer{
		logger: logger,
		config: assemblerConfig,
	}
	renderer.run = renderer.execFFMPEG
	return renderer
}

func (r *ffmpegVideoRenderer) RenderScene(ctx context.Context, req outbound.RenderSceneRequest) error {
	captionFile := req.OutputFile + ".caption.txt"
	if err := os.WriteFile(captionFile, []byte(strings.Join(req.Clip.Caption, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write caption file: %w", err)
	}
	defer func() {
		if err := os.Remove(captionFile); err != nil {
			r.logger.Error(err, "error removing caption file")
		}
	}()

	return r.run(ctx, "ffmpeg", r.sceneArgs(req, captionFile)...)
}

func (r *ffmpegVideoRenderer) Compose(ctx context.Context, req outbound.ComposeRequest) error {
	if len(req.ClipFiles) == 0 {
		return fmt.Errorf("nothing to compose")
	}
	return r.run(ctx, "ffmpeg", r.composeArgs(req)...)
}

func (r *ffmpegVideoRenderer) sceneArgs(req outbound.RenderSceneRequest, captionFile string) []string {
	clip := req.Clip
	duration := formatSeconds(clip.Duration)
	fps := strconv.Itoa(r.config.FPS)

	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if clip.IsImage {
		args = append(args, "-loop", "1", "-framerate", fps)
	}
	args = append(args, "-i", clip.VisualPath, "-i", clip.AudioPath)

	filters := []string{r.fitFilter()}
	if clip.IsImage {
		filters = append(filters, kenBurnsFilter(r.config.Width, r.config.Height, clip.Duration, r.config.KenBurnsZoom))
	} else {
		filters = append(filters,
			"tpad=stop_mode=clone:stop_duration="+duration,
			"trim=duration="+duration,
			"setpts=PTS-STARTPTS",
		)
	}
	if len(clip.Caption) > 0 {
		filters = append(filters, r.captionFilter(captionFile))
	}
	filters = append(filters, "fps="+fps, "format=yuv420p")

	args = append(args,
		"-filter_complex", "[0:v]"+strings.Join(filters, ",")+"[v]",
		"-map", "[v]", "-map", "1:a:0",
		"-t", duration,
	)
	return append(args, r.encodeArgs()...)
}

func (r *ffmpegVideoRenderer) composeArgs(req outbound.ComposeRequest) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, clipFile := range req.ClipFiles {
		args = append(args, "-i", clipFile)
	}
	if req.MusicFile != "" {
		args = append(args, "-stream_loop", "-1", "-i", req.MusicFile)
	}

	graph := append(videoChain(req), audioChain(req, r.config.MusicVolume)...)
	args = append(args,
		"-filter_complex", strings.Join(graph, ";"),
		"-map", "[vout]", "-map", "[aout]",
		"-t", formatSeconds(req.Total),
	)
	args = append(args, r.encodeArgs()...)
	return append(args, "-movflags", "+faststart")
}

// videoChain cross-fades clip k into the running output at Starts[k].
func videoChain(req outbound.ComposeRequest) []string {
	n := len(req.ClipFiles)
	if n == 1 {
		return []string{"[0:v]null[vout]"}
	}
	if req.Transition <= 0 {
		var inputs strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&inputs, "[%d:v]", i)
		}
		return []string{fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vout]", inputs.String(), n)}
	}

	var chain []string
	previous := "[0:v]"
	for i := 1; i < n; i++ {
		label := fmt.Sprintf("[v%d]", i)
		if i == n-1 {
			label = "[vout]"
		}
		chain = append(chain, fmt.Sprintf("%s[%d:v]xfade=transition=fade:duration=%s:offset=%s%s",
			previous, i, formatSeconds(req.Transition), formatSeconds(req.Starts[i]), label))
		previous = label
	}
	return chain
}

// audioChain delays each narration track to its scene start and mixes them
// without normalisation, then lays the looped music underneath.
func audioChain(req outbound.ComposeRequest, musicVolume float64) []string {
	n := len(req.ClipFiles)
	total := formatSeconds(req.Total)

	var chain []string
	var mixInputs strings.Builder
	for i := 0; i < n; i++ {
		delay := int64(req.Starts[i]*1000 + 0.5)
		chain = append(chain, fmt.Sprintf("[%d:a]adelay=delays=%d:all=1[a%d]", i, delay, i))
		fmt.Fprintf(&mixInputs, "[a%d]", i)
	}

	narration := "[aout]"
	if req.MusicFile != "" {
		narration = "[narration]"
	}
	chain = append(chain, fmt.Sprintf("%samix=inputs=%d:duration=longest:normalize=0,atrim=duration=%s%s",
		mixInputs.String(), n, total, narration))

	if req.MusicFile != "" {
		chain = append(chain,
			fmt.Sprintf("[%d:a]atrim=duration=%s,volume=%s[music]", n, total, formatSeconds(musicVolume)),
			"[narration][music]amix=inputs=2:duration=first:normalize=0[aout]",
		)
	}
	return chain
}

func (r *ffmpegVideoRenderer) fitFilter() string {
	w, h := r.config.Width, r.config.Height
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1", w, h, w, h)
}

func (r *ffmpegVideoRenderer) captionFilter(captionFile string) string {
	options := []string{
		"textfile='" + escapeFilterValue(captionFile) + "'",
		"expansion=none",
		"fontsize=" + strconv.Itoa(r.config.FontSize),
		"fontcolor=white",
		"box=1",
		"boxcolor=" + captionBoxColor,
		"boxborderw=10",
		"line_spacing=6",
		"x=(w-text_w)/2",
		fmt.Sprintf("y=h-text_h-%d", captionBottomMargin),
	}
	if r.config.FontFile != "" {
		options = append(options, "fontfile='"+escapeFilterValue(r.config.FontFile)+"'")
	}
	return "drawtext=" + strings.Join(options, ":")
}

func (r *ffmpegVideoRenderer) encodeArgs() []string {
	return []string{
		"-r", strconv.Itoa(r.config.FPS),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-ar", "44100",
		"-ac", "2",
	}
}

func (r *ffmpegVideoRenderer) execFFMPEG(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		r.logger.ErrorWithFields(err, "error running ffmpeg", map[string]interface{}{
			"stderr": stderr.String(),
		})
		return fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeFilterValue quotes a value for use inside a single-quoted filter
// option.
func escapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `'\''`)
	return strings.ReplaceAll(v, ":", `\:`)
}
