package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

type ffprobeMediaProber struct {
	logger outbound.LoggerPort
	probe  func(path string) (string, error)
}

func NewFFProbeMediaProber(logger outbound.LoggerPort) outbound.MediaProberPort {
	return &ffprobeMediaProber{
		logger: logger,
		probe: func(path string) (string, error) {
			return ffmpeg.Probe(path)
		},
	}
}

func (p *ffprobeMediaProber) Duration(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	raw, err := p.probe(path)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to probe media file", map[string]interface{}{
			"path": path,
		})
		return 0, err
	}

	duration, err := parseProbeDuration(raw)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to read media duration", map[string]interface{}{
			"path": path,
		})
		return 0, err
	}
	return duration, nil
}

// parseProbeDuration prefers the container duration and falls back to the
// first audio stream.
func parseProbeDuration(raw string) (float64, error) {
	var result probeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return 0, fmt.Errorf("invalid ffprobe output: %w", err)
	}

	candidates := []string{result.Format.Duration}
	for _, stream := range result.Streams {
		if stream.CodecType == "audio" {
			candidates = append(candidates, stream.Duration)
		}
	}
	for _, candidate := range candidates {
		if candidate == "" || candidate == "N/A" {
			continue
		}
		duration, err := strconv.ParseFloat(candidate, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", candidate, err)
		}
		if duration > 0 {
			return duration, nil
		}
	}
	return 0, fmt.Errorf("no duration in ffprobe output")
}
