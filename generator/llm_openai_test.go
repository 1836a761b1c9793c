package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeCompletions serves an OpenAI-compatible /chat/completions endpoint and
// records the decoded request bodies.
func fakeCompletions(t *testing.T, status int, reply string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		body["_auth"] = r.Header.Get("Authorization")
		bodies = append(bodies, body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`)
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "qwen-2.5-32b",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestOpenAILLMComplete(t *testing.T) {
	srv, bodies := fakeCompletions(t, http.StatusOK, "1. Essential Go Guide")
	llm, err := NewOpenAILLMFromConfig(&LLMSettings{
		Provider: ProviderGroq,
		APIKey:   "gsk-test",
		BaseURL:  srv.URL + "/openai/v1",
	})
	if err != nil {
		t.Fatalf("NewOpenAILLMFromConfig: %v", err)
	}

	got, err := llm.Complete(context.Background(), BuildTitlePrompt("go"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "1. Essential Go Guide" {
		t.Errorf("got %q", got)
	}

	if len(*bodies) != 1 {
		t.Fatalf("requests = %d, want 1", len(*bodies))
	}
	body := (*bodies)[0]
	if body["model"] != DefaultModel {
		t.Errorf("model = %v, want %s", body["model"], DefaultModel)
	}
	if body["temperature"] != 0.7 {
		t.Errorf("temperature = %v, want 0.7", body["temperature"])
	}
	if body["max_tokens"] != float64(200) {
		t.Errorf("max_tokens = %v, want 200", body["max_tokens"])
	}
	if body["_auth"] != "Bearer gsk-test" {
		t.Errorf("auth = %v", body["_auth"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v, want a single user message", body["messages"])
	}
	msg, _ := msgs[0].(map[string]any)
	if msg["role"] != "user" || !strings.Contains(msg["content"].(string), "about go") {
		t.Errorf("message = %v", msg)
	}
}

func TestOpenAILLMAuthErrorIsNotRetried(t *testing.T) {
	srv, bodies := fakeCompletions(t, http.StatusUnauthorized, "")
	llm, err := NewOpenAILLMFromConfig(&LLMSettings{Provider: ProviderGroq, BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOpenAILLMFromConfig: %v", err)
	}
	agent := newTestAgent(t, llm)

	titles, err := agent.GenerateTitles(context.Background(), "go")
	if titles != nil {
		t.Errorf("titles = %q", titles)
	}
	if !errors.Is(err, ErrGeneration) {
		t.Errorf("err = %v, want ErrGeneration", err)
	}
	if len(*bodies) != 1 {
		t.Errorf("requests = %d, want exactly one attempt", len(*bodies))
	}
}

func TestOpenAILLMTransportError(t *testing.T) {
	srv, _ := fakeCompletions(t, http.StatusOK, "")
	url := srv.URL
	srv.Close()

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{Provider: ProviderOpenAI, APIKey: "k", BaseURL: url})
	if err != nil {
		t.Fatalf("NewOpenAILLMFromConfig: %v", err)
	}
	p := NewPipeline(newTestAgent(t, llm), nil)
	st, err := p.Invoke(context.Background(), NewBlogState("go"))
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}
	if len(st.Titles) != 0 || st.BlogContent != "" {
		t.Errorf("state = %+v", st)
	}
}

func TestNewLLM(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		wantErr  bool
		wantType string
	}{
		{"groq default", LLMSettings{Provider: ProviderGroq, APIKey: "k"}, false, "openai"},
		{"openai", LLMSettings{Provider: ProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"}, false, "openai"},
		{"deepseek with base url", LLMSettings{Provider: ProviderDeepSeek, BaseURL: "https://api.deepseek.com"}, false, "openai"},
		{"deepseek without base url", LLMSettings{Provider: ProviderDeepSeek}, true, ""},
		{"mock", LLMSettings{Provider: ProviderMock}, false, "mock"},
		{"unknown", LLMSettings{Provider: "bard"}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm, err := NewLLM(tt.settings)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch tt.wantType {
			case "openai":
				o, ok := llm.(*OpenAILLM)
				if !ok {
					t.Fatalf("got %T, want *OpenAILLM", llm)
				}
				if tt.settings.Model == "" && o.Model != DefaultModel {
					t.Errorf("model = %q, want default", o.Model)
				}
			case "mock":
				if _, ok := llm.(MockLLM); !ok {
					t.Errorf("got %T, want MockLLM", llm)
				}
			}
		})
	}
}
