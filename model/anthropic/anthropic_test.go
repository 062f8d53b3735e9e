package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/credentials"
)

func transcript() core.Transcript {
	return core.Transcript{
		ConversationID: 1,
		Agent: core.AgentProfile{
			Name:         "Helper",
			Vendor:       core.VendorAnthropic,
			Model:        "claude-3-5-haiku-latest",
			Role:         "helpful assistant",
			Instructions: "Answer concisely.",
		},
		Turns: []core.Turn{
			{Human: true, Text: "Hello"},
			{Human: false, Text: "Hi there"},
			{Human: true, Text: "What is Go?"},
		},
	}
}

type capturedMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

func TestSend_RequestShape(t *testing.T) {
	var captured struct {
		Model     string            `json:"model"`
		MaxTokens int64             `json:"max_tokens"`
		System    json.RawMessage   `json:"system"`
		Messages  []capturedMessage `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest","content":[{"type":"text","text":"Go is a language."}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`)
	}))
	defer server.Close()

	a := New(credentials.Static{CredentialName: "sk-ant-test"}, func(o *Options) {
		o.BaseURL = server.URL
	})

	reply, err := a.Send(context.Background(), transcript())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Go is a language." {
		t.Errorf("reply = %q", reply)
	}

	if captured.Model != "claude-3-5-haiku-latest" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.MaxTokens != 1024 {
		t.Errorf("max_tokens = %d, want the 1024 default", captured.MaxTokens)
	}

	// The system channel carries only the role framing.
	system := string(captured.System)
	if system == "" || system == "null" {
		t.Fatal("request carried no system prompt")
	}
	if want := "You are a helpful assistant."; !strings.Contains(system, want) {
		t.Errorf("system = %s, want it to contain %q", system, want)
	}
	if strings.Contains(system, "Answer concisely.") {
		t.Error("instructions must not ride in the system channel")
	}

	// Instructions lead the message list as a user turn, then the history.
	if len(captured.Messages) != 4 {
		t.Fatalf("got %d messages, want instructions + 3 turns", len(captured.Messages))
	}
	if captured.Messages[0].Role != "user" || !strings.Contains(string(captured.Messages[0].Content), "Answer concisely.") {
		t.Errorf("message 0 = %s, want the instructions as a user turn", captured.Messages[0].Content)
	}
	wantRoles := []string{"user", "user", "assistant", "user"}
	for i, m := range captured.Messages {
		if m.Role != wantRoles[i] {
			t.Errorf("message %d role = %q, want %q", i, m.Role, wantRoles[i])
		}
	}
}

func TestSend_MissingCredential(t *testing.T) {
	a := New(credentials.Static{})

	_, err := a.Send(context.Background(), transcript())
	if !core.IsVendor(err) {
		t.Fatalf("got %v, want vendor error", err)
	}
}

func TestSend_ProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	a := New(credentials.Static{CredentialName: "sk-ant-test"}, func(o *Options) {
		o.BaseURL = server.URL
	})

	_, err := a.Send(context.Background(), transcript())
	if !core.IsVendor(err) {
		t.Fatalf("got %v, want vendor error", err)
	}
}
