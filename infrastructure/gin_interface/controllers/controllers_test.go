package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/inbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"github.com/brettsmiles-bit/ai-video-maker/infrastructure/adapters"
	"github.com/gin-gonic/gin"
)

var testShots = domain.ShotList{{
	SceneNumber:   1,
	NarrationText: "The sun rises.",
	VisualPrompt:  "sunrise over hills",
	VisualType:    domain.ImageVisualType,
}}

type fakeShotListGenerator struct {
	script string
	err    error
}

func (f *fakeShotListGenerator) Generate(_ context.Context, script string) (domain.ShotList, error) {
	f.script = script
	if f.err != nil {
		return nil, f.err
	}
	return testShots, nil
}

type fakePipeline struct {
	params inbound.StartPipelineParams
	events []domain.PipelineEvent
	err    error
}

func (f *fakePipeline) StartPipeline(_ context.Context, params inbound.StartPipelineParams) (<-chan domain.PipelineEvent, <-chan error) {
	f.params = params
	out := make(chan domain.PipelineEvent, len(f.events))
	errCh := make(chan error, 1)
	for _, event := range f.events {
		event.RunID = params.RunID
		out <- event
	}
	close(out)
	if f.err != nil {
		errCh <- f.err
	}
	close(errCh)
	return out, errCh
}

func newTestRouter(generator *fakeShotListGenerator, pipeline *fakePipeline, outputDir string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := adapters.NewZerologWrapperWithWriter(io.Discard, "error")
	router := gin.New()
	NewShotListController(logger, generator).RegisterRoutes(router)
	NewVideoController(logger, pipeline, outputDir, 2).RegisterRoutes(router)
	return router
}

// streamRecorder adds the CloseNotify support gin's Stream needs.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	router.ServeHTTP(rec, req)
	return rec.ResponseRecorder
}

func TestCreateShotList(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "ok", body: `{"script": "A day in the hills."}`, wantStatus: http.StatusOK},
		{name: "missing script", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "wrong shape", body: `{"script": "x"}`, err: fmt.Errorf("%w: no scenes", domain.ErrUnexpectedBreakdownShape), wantStatus: http.StatusUnprocessableEntity},
		{name: "provider failure", body: `{"script": "x"}`, err: errors.New("503"), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeShotListGenerator{err: tt.err}, &fakePipeline{}, t.TempDir())
			req := httptest.NewRequest(http.MethodPost, "/shot-lists", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rec := serve(router, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK && !strings.Contains(rec.Body.String(), `"scene_number":1`) {
				t.Fatalf("expected the scenes in the response, got %s", rec.Body.String())
			}
		})
	}
}

func uploadRequest(t *testing.T, fileName string, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("script", fileName)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte(content))
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/shot-lists/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadScript(t *testing.T) {
	generator := &fakeShotListGenerator{}
	router := newTestRouter(generator, &fakePipeline{}, t.TempDir())

	rec := serve(router, uploadRequest(t, "story.txt", "Once upon a time."))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if generator.script != "Once upon a time." {
		t.Fatalf("expected the uploaded script, got %q", generator.script)
	}

	if rec := serve(router, uploadRequest(t, "story.pdf", "x")); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non .txt upload, got %d", rec.Code)
	}
	if rec := serve(router, uploadRequest(t, "empty.txt", "  \n")); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty script, got %d", rec.Code)
	}
}

func createVideoRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

const validVideoBody = `{"scenes": [{"scene_number": 1, "narration_text": "The sun rises.", "visual_prompt": "sunrise", "visual_type": "image"}], "output_name": "morning"}`

func TestCreateVideo_StreamsPipelineEvents(t *testing.T) {
	outputDir := t.TempDir()
	pipeline := &fakePipeline{events: []domain.PipelineEvent{
		{Type: domain.AssetProgressEventType, Progress: &domain.ProgressEvent{Completed: 1, Total: 2, Fraction: 0.5}},
		{Type: domain.AssemblyStartedEventType},
		{Type: domain.GenerationCompleteEventType, Result: &domain.AssemblyResult{OutputFile: "morning.mp4"}},
	}}
	router := newTestRouter(&fakeShotListGenerator{}, pipeline, outputDir)

	rec := serve(router, createVideoRequest(validVideoBody))

	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("expected an event stream, got %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	body := rec.Body.String()
	for _, want := range []string{"event:asset_progress", "event:assembly_started", "event:generation_complete", `"fraction":0.5`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in stream %s", want, body)
		}
	}
	if pipeline.params.OutputFile != filepath.Join(outputDir, "morning.mp4") || pipeline.params.RunID == "" {
		t.Fatalf("unexpected pipeline params %+v", pipeline.params)
	}
}

func TestCreateVideo_StreamsErrorEvent(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("ffmpeg failed")}
	router := newTestRouter(&fakeShotListGenerator{}, pipeline, t.TempDir())

	rec := serve(router, createVideoRequest(validVideoBody))

	body := rec.Body.String()
	if !strings.Contains(body, "event:error") || !strings.Contains(body, "ffmpeg failed") {
		t.Fatalf("expected an error event, got %s", body)
	}
}

func TestCreateVideo_RejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no scenes", body: `{"scenes": []}`},
		{name: "unknown visual type", body: `{"scenes": [{"scene_number": 1, "narration_text": "x", "visual_prompt": "y", "visual_type": "gif"}]}`},
		{name: "duplicate scene numbers", body: `{"scenes": [{"scene_number": 1, "narration_text": "x", "visual_prompt": "y", "visual_type": "image"}, {"scene_number": 1, "narration_text": "x", "visual_prompt": "y", "visual_type": "video"}]}`},
		{name: "path in output name", body: `{"scenes": [{"scene_number": 1, "narration_text": "x", "visual_prompt": "y", "visual_type": "image"}], "output_name": "../escape"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeShotListGenerator{}, &fakePipeline{}, t.TempDir())
			rec := serve(router, createVideoRequest(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

// heldPipeline keeps each run open until release is closed.
type heldPipeline struct {
	started chan struct{}
	release chan struct{}
}

func (h *heldPipeline) StartPipeline(_ context.Context, _ inbound.StartPipelineParams) (<-chan domain.PipelineEvent, <-chan error) {
	out := make(chan domain.PipelineEvent)
	errCh := make(chan error, 1)
	go func() {
		h.started <- struct{}{}
		<-h.release
		close(out)
		close(errCh)
	}()
	return out, errCh
}

func TestCreateVideo_RejectsRunsBeyondLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pipeline := &heldPipeline{started: make(chan struct{}, 1), release: make(chan struct{})}
	router := gin.New()
	NewVideoController(adapters.NewZerologWrapperWithWriter(io.Discard, "error"), pipeline, t.TempDir(), 1).RegisterRoutes(router)

	done := make(chan int)
	go func() {
		done <- serve(router, createVideoRequest(validVideoBody)).Code
	}()
	<-pipeline.started

	rec := serve(router, createVideoRequest(validVideoBody))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while a run is in progress, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}

	close(pipeline.release)
	if code := <-done; code != http.StatusOK {
		t.Fatalf("expected the first run to stream, got %d", code)
	}

	rec = serve(router, createVideoRequest(validVideoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected a new run once the slot is free, got %d", rec.Code)
	}
}

func TestDownloadVideo(t *testing.T) {
	outputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(outputDir, "final.mp4"), []byte("movie"), 0o644); err != nil {
		t.Fatal(err)
	}
	router := newTestRouter(&fakeShotListGenerator{}, &fakePipeline{}, outputDir)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/videos/final.mp4", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "movie" {
		t.Fatalf("expected the video, got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "video/mp4" {
		t.Fatalf("expected video/mp4, got %s", rec.Header().Get("Content-Type"))
	}

	if rec := serve(router, httptest.NewRequest(http.MethodGet, "/videos/missing.mp4", nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(router, httptest.NewRequest(http.MethodGet, "/videos/.hidden.mp4", nil)); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeShotListGenerator{}, &fakePipeline{}, t.TempDir())

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		requested string
		want      string
		ok        bool
	}{
		{requested: "", want: "run-1.mp4", ok: true},
		{requested: "trip", want: "trip.mp4", ok: true},
		{requested: "trip.MP4", want: "trip.MP4", ok: true},
		{requested: "a/b", ok: false},
		{requested: "..", ok: false},
	}

	for _, tt := range tests {
		got, ok := OutputFileName(tt.requested, "run-1")
		if ok != tt.ok || got != tt.want {
			t.Errorf("OutputFileName(%q) = %q, %v; want %q, %v", tt.requested, got, ok, tt.want, tt.ok)
		}
	}
}
