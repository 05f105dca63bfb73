package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
)

const (
	stabilityVideoSubmitPath = "/generation/generate-video"
	stabilityVideoResultPath = "/generation/video-result/"
)

type stabilitySubmitResponse struct {
	ID string `json:"id"`
}

type stabilityVideoGenerator struct {
	ContentFetcher
	logger          outbound.LoggerPort
	stabilityConfig *config.StabilityConfig
}

func NewStabilityVideoGenerator(contentFetcher ContentFetcher, stabilityConfig *config.StabilityConfig, logger outbound.LoggerPort) outbound.VideoGeneratorPort {
	return &stabilityVideoGenerator{
		ContentFetcher:  contentFetcher,
		logger:          logger,
		stabilityConfig: stabilityConfig,
	}
}

func (v *stabilityVideoGenerator) Submit(ctx context.Context, prompt string) (string, error) {
	req, err := newStabilityFormRequest(ctx, v.stabilityConfig, stabilityVideoSubmitPath, "application/json", [][2]string{
		{"text_prompt", prompt},
		{"aspect_ratio", v.stabilityConfig.AspectRatio},
	})
	if err != nil {
		v.logger.Error(err, "Failed to create the HTTP request")
		return "", err
	}

	payload, err := v.FetchContent(req)
	if err != nil {
		return "", err
	}

	var res stabilitySubmitResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		v.logger.Error(err, "Failed to unmarshal the generation response")
		return "", err
	}
	if res.ID == "" {
		return "", fmt.Errorf("generation response has no job id")
	}

	v.logger.InfoWithFields("Video generation job submitted", map[string]interface{}{
		"job_id": res.ID,
	})
	return res.ID, nil
}

// Poll maps 200 to done, 202 to processing and every other status to
// rejected.
func (v *stabilityVideoGenerator) Poll(ctx context.Context, jobID string) (*outbound.VideoJobResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, stabilityURL(v.stabilityConfig, stabilityVideoResultPath+url.PathEscape(jobID)), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+v.stabilityConfig.ApiKey)
	req.Header.Set("Accept", "video/mp4")

	res, err := v.Do(req)
	if err != nil {
		return nil, err
	}

	switch res.StatusCode {
	case http.StatusOK:
		return &outbound.VideoJobResult{Status: outbound.VideoJobDone, StatusCode: res.StatusCode, Body: res.Body}, nil
	case http.StatusAccepted:
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
		return &outbound.VideoJobResult{Status: outbound.VideoJobProcessing, StatusCode: res.StatusCode}, nil
	default:
		message, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		_ = res.Body.Close()
		v.logger.ErrorWithFields(fmt.Errorf("status %d", res.StatusCode), "Video generation job was rejected", map[string]interface{}{
			"job_id":  jobID,
			"status":  res.StatusCode,
			"message": string(message),
		})
		return &outbound.VideoJobResult{Status: outbound.VideoJobRejected, StatusCode: res.StatusCode}, nil
	}
}
