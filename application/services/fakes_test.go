package services

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

type memoryManifest struct {
	mu      sync.Mutex
	records map[domain.AssetKey]domain.AssetRecord
}

func newMemoryManifest() *memoryManifest {
	return &memoryManifest{records: map[domain.AssetKey]domain.AssetRecord{}}
}

func (m *memoryManifest) Get(_ context.Context, key domain.AssetKey) (*domain.AssetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *memoryManifest) Put(_ context.Context, record domain.AssetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Key()] = record
	return nil
}

func (m *memoryManifest) status(sceneNumber int, kind domain.AssetKind) domain.AssetStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[domain.AssetKey{SceneNumber: sceneNumber, Kind: kind}].Status
}

type fakeAudioGenerator struct {
	mu    sync.Mutex
	calls int
	body  []byte
	err   error
}

func (f *fakeAudioGenerator) Generate(context.Context, outbound.GenerateAudioRequest) (io.ReadCloser, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(bytes.NewReader(f.body)), nil
}

func (f *fakeAudioGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeImageGenerator struct {
	calls int
	body  []byte
}

func (f *fakeImageGenerator) Generate(context.Context, string) (io.ReadCloser, error) {
	f.calls++
	return io.NopCloser(bytes.NewReader(f.body)), nil
}

type fakeStock struct {
	clip      *outbound.StockClip
	body      []byte
	downloads int
}

func (f *fakeStock) Search(context.Context, string) (*outbound.StockClip, error) {
	return f.clip, nil
}

func (f *fakeStock) Download(context.Context, outbound.StockClip) (io.ReadCloser, error) {
	f.downloads++
	return io.NopCloser(bytes.NewReader(f.body)), nil
}

type fakeVideoGenerator struct {
	mu        sync.Mutex
	submitted int
	polls     int
	results   []outbound.VideoJobResult
}

func (f *fakeVideoGenerator) Submit(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted++
	return "job-1", nil
}

// Poll replays results in order and repeats the last one.
func (f *fakeVideoGenerator) Poll(context.Context, string) (*outbound.VideoJobResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.polls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.polls++
	result := f.results[i]
	return &result, nil
}

type fakeProber struct {
	durations map[string]float64
}

func (f *fakeProber) Duration(_ context.Context, path string) (float64, error) {
	return f.durations[path], nil
}

type fakeRenderer struct {
	mu       sync.Mutex
	scenes   []outbound.RenderSceneRequest
	composed *outbound.ComposeRequest
}

func (f *fakeRenderer) RenderScene(_ context.Context, req outbound.RenderSceneRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes = append(f.scenes, req)
	return os.WriteFile(req.OutputFile, []byte("clip"), 0o644)
}

func (f *fakeRenderer) Compose(_ context.Context, req outbound.ComposeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.composed = &req
	return os.WriteFile(req.OutputFile, []byte("video"), 0o644)
}

func testLayout(t *testing.T) domain.AssetLayout {
	t.Helper()
	root := t.TempDir()
	return domain.AssetLayout{
		AudioDir:  filepath.Join(root, "audio_clips"),
		VisualDir: filepath.Join(root, "visual_assets"),
	}
}

func writeAsset(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal("Failed to create asset dir:", err)
	}
	if err := os.WriteFile(path, []byte("asset"), 0o644); err != nil {
		t.Fatal("Failed to write asset:", err)
	}
}
