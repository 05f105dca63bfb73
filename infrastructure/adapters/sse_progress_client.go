package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"github.com/donovanhide/eventsource"
)

const MaxRetries = 3

type RemoteGenerateRequest struct {
	Scenes     domain.ShotList `json:"scenes"`
	OutputName string          `json:"output_name,omitempty"`
}

// SSEProgressClient starts a run on a remote server and follows its event
// stream until generation completes.
type SSEProgressClient interface {
	Generate(ctx context.Context, req RemoteGenerateRequest, onEvent func(domain.PipelineEvent)) (*domain.PipelineEvent, error)
}

type sseProgressClient struct {
	logger    outbound.LoggerPort
	serverURL string
	token     string
}

func NewSSEProgressClient(logger outbound.LoggerPort, serverURL string, token string) SSEProgressClient {
	return &sseProgressClient{
		logger:    logger,
		serverURL: strings.TrimSuffix(serverURL, "/"),
		token:     token,
	}
}

func (s *sseProgressClient) Generate(ctx context.Context, req RemoteGenerateRequest, onEvent func(domain.PipelineEvent)) (*domain.PipelineEvent, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serverURL+"/videos", bytes.NewReader(payload))
	if err != nil {
		s.logger.Error(err, "Failed to create HTTP request for the progress stream")
		return nil, err
	}
	httpReq.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.token)
	}

	stream, err := eventsource.SubscribeWithRequest("", httpReq)
	if err != nil {
		s.logger.Error(err, "Failed to subscribe to the progress stream")
		return nil, err
	}
	defer stream.Close()

	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-stream.Events:
			if !ok {
				return nil, errors.New("progress stream closed before generation completed")
			}
			retryCount = 0
			if strings.TrimSpace(ev.Data()) == "" {
				continue
			}

			var event domain.PipelineEvent
			if err := json.Unmarshal([]byte(ev.Data()), &event); err != nil {
				s.logger.ErrorWithFields(err, "Failed to decode progress event", map[string]interface{}{
					"event": ev.Event(),
				})
				return nil, err
			}
			if onEvent != nil {
				onEvent(event)
			}

			switch event.Type {
			case domain.GenerationCompleteEventType:
				return &event, nil
			case domain.ErrorEventType:
				return nil, fmt.Errorf("remote pipeline failed: %s", event.Message)
			}
		case err, ok := <-stream.Errors:
			if !ok {
				return nil, errors.New("progress stream closed before generation completed")
			}
			if err == io.EOF {
				return nil, errors.New("progress stream ended before generation completed")
			}
			if retryCount >= MaxRetries {
				return nil, err
			}
			retryCount++
			s.logger.ErrorWithFields(err, "Error occurred during streaming, retrying", map[string]interface{}{
				"retry": retryCount,
			})
		}
	}
}
