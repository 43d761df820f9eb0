// Package server exposes the HTTP API: audio transcription, transcription
// review, order creation, product matching, and invoice download.
package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farm2bag/voicecart/internal/catalog"
	"github.com/farm2bag/voicecart/internal/health"
	"github.com/farm2bag/voicecart/internal/invoice"
	"github.com/farm2bag/voicecart/internal/match"
	"github.com/farm2bag/voicecart/internal/observe"
	"github.com/farm2bag/voicecart/internal/pipeline"
	"github.com/farm2bag/voicecart/internal/store"
	"github.com/farm2bag/voicecart/pkg/provider/stt"
)

// maxAudioBytes caps the size of an uploaded audio file.
const maxAudioBytes = 25 << 20 // 25 MiB

// Server holds the handler dependencies. Construct with New and mount the
// result of Handler on an http.Server.
type Server struct {
	stt      stt.Provider
	pipeline *pipeline.Pipeline
	matcher  *match.Matcher
	catalog  *catalog.Holder

	transcriptions store.TranscriptionStore
	orders         store.OrderStore
	invoices       *invoice.Renderer

	metrics *observe.Metrics
	health  *health.Handler

	// now is swappable in tests.
	now func() time.Time
}

// Deps bundles the constructor dependencies for New.
type Deps struct {
	STT            stt.Provider
	Pipeline       *pipeline.Pipeline
	Matcher        *match.Matcher
	Catalog        *catalog.Holder
	Transcriptions store.TranscriptionStore
	Orders         store.OrderStore
	Invoices       *invoice.Renderer
	Metrics        *observe.Metrics
	Health         *health.Handler
}

// New creates a Server. Metrics and Health may be nil; nil Metrics falls back
// to the package default and nil Health serves liveness only.
func New(d Deps) *Server {
	if d.Metrics == nil {
		d.Metrics = observe.DefaultMetrics()
	}
	if d.Health == nil {
		d.Health = health.New()
	}
	return &Server{
		stt:            d.STT,
		pipeline:       d.Pipeline,
		matcher:        d.Matcher,
		catalog:        d.Catalog,
		transcriptions: d.Transcriptions,
		orders:         d.Orders,
		invoices:       d.Invoices,
		metrics:        d.Metrics,
		health:         d.Health,
		now:            time.Now,
	}
}

// Handler builds the full route table wrapped in the observability middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /transcribe", s.handleTranscribe)
	mux.HandleFunc("GET /transcriptions/latest", s.handleLatestTranscription)
	mux.HandleFunc("GET /transcriptions/{id}", s.handleGetTranscription)
	mux.HandleFunc("PUT /transcriptions/{id}", s.handleUpdateTranscription)

	mux.HandleFunc("POST /api/match-product", s.handleMatchProduct)
	mux.HandleFunc("POST /api/orders", s.handleCreateOrder)
	mux.HandleFunc("GET /api/orders/{id}", s.handleGetOrder)
	mux.HandleFunc("GET /api/orders/{id}/invoice", s.handleInvoice)

	s.health.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(s.metrics)(mux)
}
