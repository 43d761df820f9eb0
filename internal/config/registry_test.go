package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/farm2bag/voicecart/internal/config"
	"github.com/farm2bag/voicecart/pkg/provider/llm"
	llmmock "github.com/farm2bag/voicecart/pkg/provider/llm/mock"
	"github.com/farm2bag/voicecart/pkg/provider/stt"
	sttmock "github.com/farm2bag/voicecart/pkg/provider/stt/mock"
)

func TestRegistry_CreateSTT(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()

	var gotEntry config.ProviderEntry
	reg.RegisterSTT("fake", func(entry config.ProviderEntry) (stt.Provider, error) {
		gotEntry = entry
		return &sttmock.Provider{}, nil
	})

	entry := config.ProviderEntry{Name: "fake", APIKey: "k", Model: "m"}
	p, err := reg.CreateSTT(entry)
	if err != nil {
		t.Fatalf("CreateSTT: %v", err)
	}
	if p == nil {
		t.Fatal("CreateSTT returned nil provider")
	}
	if gotEntry.APIKey != "k" || gotEntry.Model != "m" {
		t.Errorf("factory received %+v", gotEntry)
	}
}

func TestRegistry_CreateLLM(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()
	reg.RegisterLLM("fake", func(config.ProviderEntry) (llm.Provider, error) {
		return &llmmock.Provider{}, nil
	})

	if _, err := reg.CreateLLM(config.ProviderEntry{Name: "fake"}); err != nil {
		t.Fatalf("CreateLLM: %v", err)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()

	_, err := reg.CreateSTT(config.ProviderEntry{Name: "nope"})
	if !errors.Is(err, config.ErrProviderNotRegistered) {
		t.Errorf("CreateSTT err = %v, want ErrProviderNotRegistered", err)
	}
	_, err = reg.CreateLLM(config.ProviderEntry{Name: "nope"})
	if !errors.Is(err, config.ErrProviderNotRegistered) {
		t.Errorf("CreateLLM err = %v, want ErrProviderNotRegistered", err)
	}
}

func TestRegistry_ReplacesRegistration(t *testing.T) {
	t.Parallel()
	reg := config.NewRegistry()

	first := &llmmock.Provider{}
	second := &llmmock.Provider{}
	reg.RegisterLLM("dup", func(config.ProviderEntry) (llm.Provider, error) { return first, nil })
	reg.RegisterLLM("dup", func(config.ProviderEntry) (llm.Provider, error) { return second, nil })

	p, err := reg.CreateLLM(config.ProviderEntry{Name: "dup"})
	if err != nil {
		t.Fatal(err)
	}
	if p != second {
		t.Error("later registration should win")
	}

	// The created provider is usable.
	if _, err := p.Complete(context.Background(), llm.CompletionRequest{}); err != nil {
		t.Errorf("Complete: %v", err)
	}
}
