package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

const DirectorPrompt = `You are an expert video director. Your task is to read a video script and break it down into a shot list.
The entire output must be a single, valid JSON object with one key: "scenes".
The "scenes" key must contain a list of objects.
Each scene object must contain four keys:
1. 'scene_number': An integer for the scene order.
2. 'narration_text': The exact text to be spoken for the scene (1-3 sentences).
3. 'visual_prompt': A descriptive prompt for an AI visual generator OR a search query for stock footage.
4. 'visual_type': A string that is "video", "image", or "stock_footage". Choose "stock_footage" for realistic, generic scenes, "image" for static concepts, and "video" for specific actions.`

type shotListGenerator struct {
	logger    outbound.LoggerPort
	breakdown outbound.SceneBreakdownPort
}

func NewShotListGenerator(logger outbound.LoggerPort, breakdown outbound.SceneBreakdownPort) inbound.ShotListGeneratorPort {
	return &shotListGenerator{
		logger:    logger,
		breakdown: breakdown,
	}
}

func BuildBreakdownPrompt(script string) string {
	return DirectorPrompt + "\n\nHere is the script:\n\n" + script
}

func (s *shotListGenerator) Generate(ctx context.Context, script string) (domain.ShotList, error) {
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("%w: script is empty", domain.ErrInvalidShotList)
	}

	s.logger.InfoWithFields("Requesting scene breakdown", map[string]interface{}{
		"script_length": len(script),
	})

	raw, err := s.breakdown.Complete(ctx, BuildBreakdownPrompt(script))
	if err != nil {
		s.logger.Error(err, "Scene breakdown request failed")
		return nil, err
	}

	shots, err := ParseShotList(raw)
	if err != nil {
		s.logger.ErrorWithFields(err, "Scene breakdown returned an unusable response", map[string]interface{}{
			"response": truncate(raw, 500),
		})
		return nil, err
	}

	s.logger.InfoWithFields("Scene breakdown complete", map[string]interface{}{
		"scenes": len(shots),
	})
	return shots, nil
}

// ParseShotList accepts either {"scenes": [...]} or a bare [...] and yields
// the same shot list for both. Markdown code fences are ignored.
func ParseShotList(raw string) (domain.ShotList, error) {
	text := stripCodeFence(raw)

	var shots domain.ShotList
	switch {
	case strings.HasPrefix(text, "{"):
		var wrapper struct {
			Scenes *domain.ShotList `json:"scenes"`
		}
		if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnexpectedBreakdownShape, err)
		}
		if wrapper.Scenes == nil {
			return nil, fmt.Errorf("%w: object has no scenes key", domain.ErrUnexpectedBreakdownShape)
		}
		shots = *wrapper.Scenes
	case strings.HasPrefix(text, "["):
		if err := json.Unmarshal([]byte(text), &shots); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnexpectedBreakdownShape, err)
		}
	default:
		return nil, fmt.Errorf("%w: response is neither an object nor a list", domain.ErrUnexpectedBreakdownShape)
	}

	if err := shots.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnexpectedBreakdownShape, err)
	}
	return shots, nil
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if newline := strings.IndexByte(text, '\n'); newline >= 0 {
		text = text[newline+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
