package config_test

import (
	"strings"
	"testing"

	"github.com/farm2bag/voicecart/internal/config"
	"github.com/farm2bag/voicecart/internal/match"
)

const validYAML = `
server:
  listen_addr: ":8080"
  log_level: info
catalog:
  path: configs/catalog.yaml
  format: yaml
matching:
  threshold: 0.7
providers:
  stt:
    name: groq-whisper
    api_key: gsk-test
    model: whisper-large-v3
    options:
      language: en
  llm:
    name: groq
    api_key: gsk-test
    model: llama-3.3-70b-versatile
storage:
  postgres_dsn: ""
invoice:
  seller:
    name: Farm2Bag
    city: Chennai
`

func TestLoadFromReader_Valid(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Matching.Threshold != 0.7 {
		t.Errorf("threshold = %v", cfg.Matching.Threshold)
	}
	if cfg.Providers.STT.Options["language"] != "en" {
		t.Errorf("stt options = %+v", cfg.Providers.STT.Options)
	}
	if cfg.Invoice.Seller.Name != "Farm2Bag" {
		t.Errorf("seller = %+v", cfg.Invoice.Seller)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()
	yaml := strings.Replace(validYAML, "storage:", "storge:", 1)
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestValidate_MissingFields(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: info
providers:
  stt:
    name: ""
  llm:
    name: ""
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{"listen_addr", "catalog.path", "stt", "llm"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	t.Parallel()
	yaml := strings.Replace(validYAML, "log_level: info", "log_level: loud", 1)
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}

func TestValidate_ThresholdRange(t *testing.T) {
	t.Parallel()
	yaml := strings.Replace(validYAML, "threshold: 0.7", "threshold: 1.5", 1)
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil || !strings.Contains(err.Error(), "threshold") {
		t.Errorf("error should mention threshold, got: %v", err)
	}
}

func TestValidate_BadCatalogFormat(t *testing.T) {
	t.Parallel()
	yaml := strings.Replace(validYAML, "format: yaml", "format: csv", 1)
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil || !strings.Contains(err.Error(), "catalog.format") {
		t.Errorf("error should mention catalog.format, got: %v", err)
	}
}

func TestThresholdOrDefault(t *testing.T) {
	t.Parallel()
	m := config.Matching{}
	if got := m.ThresholdOrDefault(); got != match.DefaultThreshold {
		t.Errorf("zero threshold = %v, want the matcher default", got)
	}
	m.Threshold = 0.8
	if got := m.ThresholdOrDefault(); got != 0.8 {
		t.Errorf("explicit threshold = %v, want 0.8", got)
	}
}
