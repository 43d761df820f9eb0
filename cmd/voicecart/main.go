// Command voicecart is the voice grocery-order server: it transcribes spoken
// orders, extracts product lines with an LLM, resolves them against the
// product catalog, and serves the order and invoice API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/farm2bag/voicecart/internal/app"
	"github.com/farm2bag/voicecart/internal/config"
	"github.com/farm2bag/voicecart/internal/observe"
	"github.com/farm2bag/voicecart/pkg/provider/llm"
	"github.com/farm2bag/voicecart/pkg/provider/llm/anyllm"
	oaillm "github.com/farm2bag/voicecart/pkg/provider/llm/openai"
	"github.com/farm2bag/voicecart/pkg/provider/stt"
	"github.com/farm2bag/voicecart/pkg/provider/stt/whisperapi"
)

// groqBaseURL is the OpenAI-compatible endpoint of Groq's hosted API.
const groqBaseURL = "https://api.groq.com/openai/v1"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "voicecart: config file %q not found; copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "voicecart: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("voicecart starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "voicecart",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(flushCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	// ── Instantiate providers ─────────────────────────────────────────────────
	providers, err := buildProviders(cfg, reg)
	if err != nil {
		slog.Error("failed to build providers", "err", err)
		return 1
	}

	// ── Application ───────────────────────────────────────────────────────────
	application, err := app.New(ctx, cfg, providers)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}

	// SIGHUP swaps in a freshly loaded catalog without dropping requests.
	go watchReload(ctx, application)

	slog.Info("server ready, press Ctrl+C to shut down")

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("shutdown signal received, stopping…")

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// watchReload reloads the catalog on SIGHUP until ctx ends.
func watchReload(ctx context.Context, application *app.App) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := application.ReloadCatalog(ctx); err != nil {
				slog.Error("catalog reload failed", "err", err)
			}
		}
	}
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the appropriate
// provider from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry) {
	// ── LLM ───────────────────────────────────────────────────────────────────
	// The any-llm-go backends all share the same pattern: optional APIKey +
	// optional BaseURL.
	for _, providerName := range []string{"groq", "mistral", "deepseek"} {
		reg.RegisterLLM(providerName, func(entry config.ProviderEntry) (llm.Provider, error) {
			var opts []anyllmlib.Option
			if entry.APIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(providerName, entry.Model, opts...)
		})
	}

	// ollama is a local server; it uses BaseURL for the address, not an API key.
	reg.RegisterLLM("ollama", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.NewOllama(entry.Model, opts...)
	})

	// openai uses the native SDK adapter, which also serves any other
	// OpenAI-compatible endpoint via base_url.
	reg.RegisterLLM("openai", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []oaillm.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaillm.WithBaseURL(entry.BaseURL))
		}
		return oaillm.New(entry.APIKey, entry.Model, opts...)
	})

	// ── STT ───────────────────────────────────────────────────────────────────

	reg.RegisterSTT("whisper-api", func(entry config.ProviderEntry) (stt.Provider, error) {
		return whisperapi.New(entry.APIKey, entry.Model, whisperOptions(entry)...)
	})

	// groq-whisper is the whisper-api adapter pointed at Groq's hosted
	// endpoint, which is the default deployment target.
	reg.RegisterSTT("groq-whisper", func(entry config.ProviderEntry) (stt.Provider, error) {
		opts := whisperOptions(entry)
		if entry.BaseURL == "" {
			opts = append(opts, whisperapi.WithBaseURL(groqBaseURL))
		}
		return whisperapi.New(entry.APIKey, entry.Model, opts...)
	})
}

// whisperOptions translates the shared ProviderEntry fields into whisperapi
// options.
func whisperOptions(entry config.ProviderEntry) []whisperapi.Option {
	var opts []whisperapi.Option
	if entry.BaseURL != "" {
		opts = append(opts, whisperapi.WithBaseURL(entry.BaseURL))
	}
	if lang := entry.Options["language"]; lang != "" {
		opts = append(opts, whisperapi.WithLanguage(lang))
	}
	return opts
}

// buildProviders instantiates the configured STT and LLM providers via reg.
func buildProviders(cfg *config.Config, reg *config.Registry) (*app.Providers, error) {
	sttProvider, err := reg.CreateSTT(cfg.Providers.STT)
	if err != nil {
		return nil, fmt.Errorf("stt: %w", err)
	}
	slog.Info("provider created", "kind", "stt", "name", cfg.Providers.STT.Name)

	llmProvider, err := reg.CreateLLM(cfg.Providers.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	slog.Info("provider created", "kind", "llm", "name", cfg.Providers.LLM.Name)

	return &app.Providers{STT: sttProvider, LLM: llmProvider}, nil
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
