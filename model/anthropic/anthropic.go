// Package anthropic implements the Anthropic "system+messages-style"
// adapter over the Messages API. The agent's role travels in the dedicated
// system field while its instructions lead the message list as a user turn.
package anthropic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/credentials"
	"github.com/joshkgarber/incontext/model"
)

// CredentialName is the credential resolved before every call.
const CredentialName = "ANTHROPIC_API_KEY"

// Options configure the Anthropic adapter.
type Options struct {
	// BaseURL overrides the API endpoint (tests point this at a local server).
	BaseURL string
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
	// MaxTokens caps the reply length.
	MaxTokens int64
}

// Adapter wraps the Anthropic Messages API behind model.Adapter.
type Adapter struct {
	creds credentials.Provider
	opts  Options
}

var _ model.Adapter = (*Adapter)(nil)

// New creates an Anthropic adapter resolving its API key through creds.
func New(creds credentials.Provider, optFns ...func(o *Options)) *Adapter {
	opts := Options{MaxTokens: 1024}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{creds: creds, opts: opts}
}

// Send implements model.Adapter.
func (a *Adapter) Send(ctx context.Context, t core.Transcript) (string, error) {
	key, err := a.creds.Get(CredentialName)
	if err != nil {
		return "", &core.VendorError{Vendor: core.VendorAnthropic, Err: err}
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(key)}
	if a.opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(a.opts.BaseURL))
	}
	if a.opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(a.opts.HTTPClient))
	}
	client := anthropic.NewClient(clientOpts...)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(t.Agent.Model),
		MaxTokens: a.opts.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: fmt.Sprintf("You are a %s.", t.Agent.Role)},
		},
		Messages: buildMessages(t),
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", &core.VendorError{Vendor: core.VendorAnthropic, Err: err}
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			if text := block.AsText().Text; text != "" {
				return text, nil
			}
		}
	}
	return "", &core.VendorError{Vendor: core.VendorAnthropic, Err: fmt.Errorf("no text content returned")}
}

// buildMessages converts the transcript into Anthropic messages. The
// instructions are prepended as a user turn; the system field carries only
// the role framing.
func buildMessages(t core.Transcript) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(t.Turns)+1)
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Agent.Instructions)))
	for _, turn := range t.Turns {
		if turn.Human {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Text)))
		} else {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Text)))
		}
	}
	return messages
}

// Info implements model.Adapter.
func (a *Adapter) Info() model.Info {
	return model.Info{Vendor: core.VendorAnthropic}
}
