package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/credentials"
)

func transcript() core.Transcript {
	return core.Transcript{
		ConversationID: 1,
		Agent: core.AgentProfile{
			Name:         "Helper",
			Vendor:       core.VendorOpenAI,
			Model:        "gpt-4o-mini",
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

func TestSend_RequestShape(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Go is a language."},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	a := New(credentials.Static{CredentialName: "sk-test"}, func(o *Options) {
		o.BaseURL = server.URL
	})

	reply, err := a.Send(context.Background(), transcript())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Go is a language." {
		t.Errorf("reply = %q", reply)
	}

	if captured.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", captured.Model)
	}
	if len(captured.Messages) != 4 {
		t.Fatalf("got %d messages, want system + 3 turns", len(captured.Messages))
	}
	system := captured.Messages[0]
	if system.Role != "system" {
		t.Fatalf("first message role = %q, want system", system.Role)
	}
	if system.Content != "You are a helpful assistant. Answer concisely." {
		t.Errorf("system content = %q", system.Content)
	}
	wantRoles := []string{"system", "user", "assistant", "user"}
	for i, m := range captured.Messages {
		if m.Role != wantRoles[i] {
			t.Errorf("message %d role = %q, want %q", i, m.Role, wantRoles[i])
		}
	}
	// Role and instructions must never leak into conversational slots.
	for _, m := range captured.Messages[1:] {
		if m.Content == "Answer concisely." {
			t.Error("instructions leaked into a conversational message")
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
		http.Error(w, `{"error":{"message":"unknown model"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	a := New(credentials.Static{CredentialName: "sk-test"}, func(o *Options) {
		o.BaseURL = server.URL
		o.HTTPClient = server.Client()
	})

	_, err := a.Send(context.Background(), transcript())
	if !core.IsVendor(err) {
		t.Fatalf("got %v, want vendor error", err)
	}
}
