// Package openai implements the OpenAI "completion-style" adapter using the
// Chat Completions API. The agent's role and instructions become a single
// system message prepended to the conversation.
package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/credentials"
	"github.com/joshkgarber/incontext/model"
)

// CredentialName is the credential resolved before every call.
const CredentialName = "OPENAI_API_KEY"

// Options configure the OpenAI adapter.
type Options struct {
	// BaseURL overrides the API endpoint (tests point this at a local server).
	BaseURL string
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
	// MaxCompletionTokens caps the reply length.
	MaxCompletionTokens int64
}

// Adapter wraps the OpenAI Chat Completions API behind model.Adapter.
type Adapter struct {
	creds credentials.Provider
	opts  Options
}

var _ model.Adapter = (*Adapter)(nil)

// New creates an OpenAI adapter resolving its API key through creds.
func New(creds credentials.Provider, optFns ...func(o *Options)) *Adapter {
	opts := Options{MaxCompletionTokens: 4096}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{creds: creds, opts: opts}
}

// Send implements model.Adapter. The client is rebuilt per call so no
// credential or session state survives between requests.
func (a *Adapter) Send(ctx context.Context, t core.Transcript) (string, error) {
	key, err := a.creds.Get(CredentialName)
	if err != nil {
		return "", &core.VendorError{Vendor: core.VendorOpenAI, Err: err}
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(key)}
	if a.opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(a.opts.BaseURL))
	}
	if a.opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(a.opts.HTTPClient))
	}
	client := openai.NewClient(clientOpts...)

	params := openai.ChatCompletionNewParams{
		Model:               t.Agent.Model,
		Messages:            buildMessages(t),
		MaxCompletionTokens: openai.Int(a.opts.MaxCompletionTokens),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &core.VendorError{Vendor: core.VendorOpenAI, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &core.VendorError{Vendor: core.VendorOpenAI, Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

// buildMessages converts the transcript into chat messages with the system
// preamble first.
func buildMessages(t core.Transcript) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(t.Turns)+1)
	messages = append(messages, openai.SystemMessage(systemText(t.Agent)))
	for _, turn := range t.Turns {
		if turn.Human {
			messages = append(messages, openai.UserMessage(turn.Text))
		} else {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		}
	}
	return messages
}

func systemText(agent core.AgentProfile) string {
	return fmt.Sprintf("You are a %s. %s", agent.Role, agent.Instructions)
}

// Info implements model.Adapter.
func (a *Adapter) Info() model.Info {
	return model.Info{Vendor: core.VendorOpenAI}
}
