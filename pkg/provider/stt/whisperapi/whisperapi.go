// Package whisperapi provides a batch STT provider speaking the
// OpenAI-compatible POST /audio/transcriptions API.
//
// Groq exposes the same wire format for its hosted Whisper models, so the
// default voicecart deployment points this provider at
// https://api.groq.com/openai/v1 with model "whisper-large-v3-turbo". It works
// equally against api.openai.com or any self-hosted server that implements
// the endpoint.
//
// Usage:
//
//	p, err := whisperapi.New("gsk-...", "whisper-large-v3-turbo",
//	    whisperapi.WithBaseURL("https://api.groq.com/openai/v1"),
//	    whisperapi.WithLanguage("en"),
//	)
//	tr, err := p.Transcribe(ctx, stt.Request{Audio: f, Filename: "order.wav"})
package whisperapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/farm2bag/voicecart/pkg/provider/stt"
)

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// config holds optional configuration for the provider.
type config struct {
	baseURL     string
	language    string
	temperature float64
	timeout     time.Duration
}

// Option is a functional option for configuring a Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL
// (e.g., "https://api.groq.com/openai/v1" or a local whisper server).
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithLanguage sets the default recognition language used when a request does
// not specify one.
func WithLanguage(lang string) Option {
	return func(c *config) {
		c.language = lang
	}
}

// WithTemperature sets the sampling temperature for recognition. The default
// of 0 keeps transcription deterministic.
func WithTemperature(t float64) Option {
	return func(c *config) {
		c.temperature = t
	}
}

// WithTimeout sets a per-request HTTP timeout. Audio uploads can be large;
// the default client timeout is 60 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Provider implements stt.Provider against an OpenAI-compatible
// /audio/transcriptions endpoint.
type Provider struct {
	client      oai.Client
	model       string
	language    string
	temperature float64
}

// New constructs a Provider for the given API key and model.
func New(apiKey string, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("whisperapi: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("whisperapi: model must not be empty")
	}

	cfg := &config{timeout: 60 * time.Second}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &Provider{
		client:      oai.NewClient(reqOpts...),
		model:       model,
		language:    cfg.language,
		temperature: cfg.temperature,
	}, nil
}

// Transcribe implements stt.Provider.
func (p *Provider) Transcribe(ctx context.Context, req stt.Request) (*stt.Transcript, error) {
	if req.Audio == nil {
		return nil, fmt.Errorf("whisperapi: request audio must not be nil")
	}

	params := oai.AudioTranscriptionNewParams{
		File:  req.Audio,
		Model: oai.AudioModel(p.model),
	}

	lang := req.Language
	if lang == "" {
		lang = p.language
	}
	if lang != "" {
		params.Language = param.NewOpt(lang)
	}
	if req.Prompt != "" {
		params.Prompt = param.NewOpt(req.Prompt)
	}
	if p.temperature != 0 {
		params.Temperature = param.NewOpt(p.temperature)
	}

	resp, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("whisperapi: transcribe %q: %w", req.Filename, err)
	}

	return &stt.Transcript{
		Text:     strings.TrimSpace(resp.Text),
		Language: lang,
	}, nil
}
