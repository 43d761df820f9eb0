// Package stt defines the Provider interface for the Speech-to-Text
// collaborator.
//
// Unlike a realtime voice assistant, voicecart receives complete audio files
// uploaded after the customer finishes speaking, so the interface is a batch
// call: one audio file in, one transcript out. Streaming sessions, partial
// results, and keyword boosting are deliberately out of scope.
//
// Implementations must be safe for concurrent use; one Provider instance
// serves all in-flight uploads.
package stt

import (
	"context"
	"io"
)

// Request describes one audio file to transcribe.
type Request struct {
	// Audio is the raw audio content. The provider consumes it entirely;
	// closing it remains the caller's responsibility.
	Audio io.Reader

	// Filename is the original upload name. Providers that submit multipart
	// forms use it to carry the container format ("order.wav", "order.webm").
	Filename string

	// Language is the BCP-47 language tag for recognition (e.g., "en").
	// Empty lets the provider auto-detect, when supported.
	Language string

	// Prompt is an optional context hint forwarded to the recognizer to bias
	// spelling of domain vocabulary (product names).
	Prompt string
}

// Transcript is the authoritative recognition result for one audio file.
type Transcript struct {
	// Text is the transcribed speech content.
	Text string

	// Language is the detected or requested language, when reported.
	Language string
}

// Provider is the abstraction over any batch STT backend.
type Provider interface {
	// Transcribe submits the audio in req and waits for the full transcript.
	// An empty Transcript.Text with a nil error means the audio contained no
	// recognizable speech. Callers must treat that as "nothing ordered",
	// not as a transport failure.
	Transcribe(ctx context.Context, req Request) (*Transcript, error)
}
