package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brettsmiles-bit/ai-video-maker/config"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"
)

const breakdownJSON = `{"scenes":[{"scene_number":1,"narration_text":"Hi.","visual_prompt":"sunrise","visual_type":"image"}]}`

func TestOpenAISceneBreakdown_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer oa-key" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body["model"] != "gpt-4o-mini" {
			t.Errorf("unexpected model %v", body["model"])
		}
		format, _ := body["response_format"].(map[string]interface{})
		if format["type"] != "json_schema" {
			t.Errorf("expected a json_schema response format, got %v", body["response_format"])
		}

		content, _ := json.Marshal(breakdownJSON)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`, content)
	}))
	defer server.Close()

	breakdown := NewOpenAISceneBreakdown(&config.OpenAIConfig{ApiKey: "oa-key", Model: "gpt-4o-mini"}, testLogger(),
		option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))

	got, err := breakdown.Complete(context.Background(), "Write a shot list")
	if err != nil {
		t.Fatal("Failed to complete:", err)
	}
	if got != breakdownJSON {
		t.Fatalf("unexpected completion %s", got)
	}
}

func TestGeminiSceneBreakdown_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		text, _ := json.Marshal(breakdownJSON)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":%s}]}}]}`, text)
	}))
	defer server.Close()

	breakdown, err := newGeminiSceneBreakdown(context.Background(), &config.GeminiConfig{ApiKey: "g-key", Model: "gemini-2.5-flash"}, testLogger(),
		genai.HTTPOptions{BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatal("Failed to create client:", err)
	}

	got, err := breakdown.Complete(context.Background(), "Write a shot list")
	if err != nil {
		t.Fatal("Failed to complete:", err)
	}
	if got != breakdownJSON {
		t.Fatalf("unexpected completion %s", got)
	}
}

func writeSSE(t *testing.T, w http.ResponseWriter, event domain.PipelineEvent) {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	w.(http.Flusher).Flush()
}

func TestSSEProgressClient_FollowsEventsUntilComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/videos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token-1" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		var req RemoteGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Scenes) != 1 {
			t.Errorf("unexpected body %+v %v", req, err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w, domain.PipelineEvent{Type: domain.AssetProgressEventType, RunID: "r1",
			Progress: &domain.ProgressEvent{Completed: 1, Total: 2, Fraction: 0.5}})
		writeSSE(t, w, domain.PipelineEvent{Type: domain.AssemblyStartedEventType, RunID: "r1"})
		writeSSE(t, w, domain.PipelineEvent{Type: domain.GenerationCompleteEventType, RunID: "r1",
			Result: &domain.AssemblyResult{OutputFile: "final_video.mp4"}})
	}))
	defer server.Close()

	client := NewSSEProgressClient(testLogger(), server.URL+"/", "token-1")
	var seen []domain.EventType
	final, err := client.Generate(context.Background(), RemoteGenerateRequest{Scenes: testShotList()}, func(event domain.PipelineEvent) {
		seen = append(seen, event.Type)
	})
	if err != nil {
		t.Fatal("Failed to follow the stream:", err)
	}

	if len(seen) != 3 || seen[0] != domain.AssetProgressEventType {
		t.Fatalf("unexpected events %v", seen)
	}
	if final.Result == nil || final.Result.OutputFile != "final_video.mp4" {
		t.Fatalf("unexpected final event %+v", final)
	}
}

func TestSSEProgressClient_ErrorEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(t, w, domain.PipelineEvent{Type: domain.ErrorEventType, RunID: "r1", Message: "assembly failed"})
	}))
	defer server.Close()

	client := NewSSEProgressClient(testLogger(), server.URL, "")
	_, err := client.Generate(context.Background(), RemoteGenerateRequest{Scenes: testShotList()}, nil)
	if err == nil || !strings.Contains(err.Error(), "assembly failed") {
		t.Fatalf("expected the remote error, got %v", err)
	}
}

func TestSSEProgressClient_RejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewSSEProgressClient(testLogger(), server.URL, "")
	if _, err := client.Generate(context.Background(), RemoteGenerateRequest{Scenes: testShotList()}, nil); err == nil {
		t.Fatal("expected an error for a rejected request")
	}
}

func testShotList() domain.ShotList {
	return domain.ShotList{{
		SceneNumber:   1,
		NarrationText: "Hello.",
		VisualPrompt:  "sunrise",
		VisualType:    domain.ImageVisualType,
	}}
}

func TestZerologWrapper_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologWrapperWithWriter(&buf, "warn")

	logger.Info("hidden")
	logger.WarnWithFields("shown", map[string]interface{}{"scene": 1})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered, got %s", out)
	}
	if !strings.Contains(out, `"message":"shown"`) || !strings.Contains(out, `"scene":1`) {
		t.Fatalf("expected the warning with fields, got %s", out)
	}
}
