// Package google implements the Gemini "chat-session style" adapter. The
// provider API wants a chat session seeded with prior turns and only the
// newest turn as input, so every call rebuilds the session from the
// transcript minus its final turn. Nothing is cached between requests.
package google

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/credentials"
	"github.com/joshkgarber/incontext/model"
)

// CredentialName is the credential resolved before every call.
const CredentialName = "GEMINI_API_KEY"

// Options configure the Google adapter.
type Options struct {
	// BaseURL overrides the API endpoint (tests point this at a local server).
	BaseURL string
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

// Adapter wraps the Gemini chat API behind model.Adapter.
type Adapter struct {
	creds credentials.Provider
	opts  Options
}

var _ model.Adapter = (*Adapter)(nil)

// New creates a Google adapter resolving its API key through creds.
func New(creds credentials.Provider, optFns ...func(o *Options)) *Adapter {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{creds: creds, opts: opts}
}

// Send implements model.Adapter.
func (a *Adapter) Send(ctx context.Context, t core.Transcript) (string, error) {
	last, ok := t.LastTurn()
	if !ok {
		return "", &core.VendorError{Vendor: core.VendorGoogle, Err: fmt.Errorf("empty transcript")}
	}

	key, err := a.creds.Get(CredentialName)
	if err != nil {
		return "", &core.VendorError{Vendor: core.VendorGoogle, Err: err}
	}

	cfg := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if a.opts.HTTPClient != nil {
		cfg.HTTPClient = a.opts.HTTPClient
	}
	if a.opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = a.opts.BaseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", &core.VendorError{Vendor: core.VendorGoogle, Err: err}
	}

	chat, err := client.Chats.Create(ctx, t.Agent.Model, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemText(t.Agent)}},
		},
	}, buildHistory(t.Turns[:len(t.Turns)-1]))
	if err != nil {
		return "", &core.VendorError{Vendor: core.VendorGoogle, Err: err}
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: last.Text})
	if err != nil {
		return "", &core.VendorError{Vendor: core.VendorGoogle, Err: err}
	}
	text := resp.Text()
	if text == "" {
		return "", &core.VendorError{Vendor: core.VendorGoogle, Err: fmt.Errorf("no text content returned")}
	}
	return text, nil
}

// buildHistory converts prior turns to Gemini contents. Agent turns use the
// provider's "model" role.
func buildHistory(turns []core.Turn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		role := "model"
		if turn.Human {
			role = "user"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	return history
}

func systemText(agent core.AgentProfile) string {
	return fmt.Sprintf("You are a %s. %s", agent.Role, agent.Instructions)
}

// Info implements model.Adapter.
func (a *Adapter) Info() model.Info {
	return model.Info{Vendor: core.VendorGoogle}
}
