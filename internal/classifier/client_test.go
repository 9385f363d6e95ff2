package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func fakeLLM(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestClassifySuccess(t *testing.T) {
	srv := fakeLLM(t, http.StatusOK, "```json\n"+sampleObject+"\n```")
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, nil)
	a, err := c.Classify(context.Background(), Input{
		Message:   "urgent wire transfer needed",
		Channel:   "email",
		ActorRole: "finance",
		Amount:    "50000",
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if a.OverallRiskScore == nil || *a.OverallRiskScore != 85 {
		t.Errorf("expected score 85, got %v", a.OverallRiskScore)
	}
}

func TestClassifyUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, nil)
	if _, err := c.Classify(context.Background(), Input{Message: "hi"}); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestClassifyUnparseableReply(t *testing.T) {
	srv := fakeLLM(t, http.StatusOK, "Sorry, I can't score that.")
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, nil)
	if _, err := c.Classify(context.Background(), Input{Message: "hi"}); err == nil {
		t.Fatal("expected error on unparseable reply")
	}
}

func TestClassifyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: 20 * time.Millisecond}, nil)
	if _, err := c.Classify(context.Background(), Input{Message: "hi"}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestBuildPromptFillsDefaults(t *testing.T) {
	got := buildPrompt(Input{Message: "hello"})
	if !strings.Contains(got, "unknown") {
		t.Errorf("empty channel should render as unknown:\n%s", got)
	}
	if !strings.Contains(got, "not specified") {
		t.Errorf("empty amount should render as not specified:\n%s", got)
	}
}
