package google

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
			Vendor:       core.VendorGoogle,
			Model:        "gemini-2.0-flash",
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
	var rawBody []byte
	var captured struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawBody, _ = io.ReadAll(r.Body)
		if err := json.Unmarshal(rawBody, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Go is a language."}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	a := New(credentials.Static{CredentialName: "gm-test"}, func(o *Options) {
		o.BaseURL = server.URL
		o.HTTPClient = server.Client()
	})

	reply, err := a.Send(context.Background(), transcript())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Go is a language." {
		t.Errorf("reply = %q", reply)
	}

	// Role and instructions ride in the system instruction, never in the
	// conversational contents.
	if !strings.Contains(string(rawBody), "You are a helpful assistant. Answer concisely.") {
		t.Errorf("request carries no system instruction: %s", rawBody)
	}
	if len(captured.Contents) != 3 {
		t.Fatalf("got %d contents, want the 3 turns", len(captured.Contents))
	}
	wantRoles := []string{"user", "model", "user"}
	wantTexts := []string{"Hello", "Hi there", "What is Go?"}
	for i, c := range captured.Contents {
		if c.Role != wantRoles[i] {
			t.Errorf("content %d role = %q, want %q", i, c.Role, wantRoles[i])
		}
		if len(c.Parts) != 1 || c.Parts[0].Text != wantTexts[i] {
			t.Errorf("content %d parts = %+v, want %q", i, c.Parts, wantTexts[i])
		}
		if c.Parts[0].Text == "Answer concisely." {
			t.Error("instructions leaked into a conversational content")
		}
	}
}

func TestSend_EmptyTranscript(t *testing.T) {
	a := New(credentials.Static{CredentialName: "gm-test"})

	_, err := a.Send(context.Background(), core.Transcript{})
	if !core.IsVendor(err) {
		t.Fatalf("got %v, want vendor error", err)
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
		http.Error(w, `{"error":{"code":400,"message":"invalid model","status":"INVALID_ARGUMENT"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	a := New(credentials.Static{CredentialName: "gm-test"}, func(o *Options) {
		o.BaseURL = server.URL
		o.HTTPClient = server.Client()
	})

	_, err := a.Send(context.Background(), transcript())
	if !core.IsVendor(err) {
		t.Fatalf("got %v, want vendor error", err)
	}
}
