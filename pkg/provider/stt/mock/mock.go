// Package mock provides a test double for the stt.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/farm2bag/voicecart/pkg/provider/stt"
)

// TranscribeCall records a single invocation of Transcribe.
type TranscribeCall struct {
	// Ctx is the context passed to Transcribe.
	Ctx context.Context
	// Req is the Request passed to Transcribe. Note that Req.Audio may
	// already be consumed by the time the test inspects it.
	Req stt.Request
}

// Provider is a mock implementation of stt.Provider.
// Zero values cause Transcribe to return an empty transcript and nil error.
type Provider struct {
	mu sync.Mutex

	// Transcript is returned by Transcribe. May be nil (returns an empty
	// transcript).
	Transcript *stt.Transcript

	// Err, if non-nil, is returned as the error from Transcribe.
	Err error

	// Calls records every invocation of Transcribe in order.
	Calls []TranscribeCall
}

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// Transcribe implements stt.Provider.
func (p *Provider) Transcribe(ctx context.Context, req stt.Request) (*stt.Transcript, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, TranscribeCall{Ctx: ctx, Req: req})
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	if p.Transcript == nil {
		return &stt.Transcript{}, nil
	}
	return p.Transcript, nil
}
