package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/farm2bag/voicecart/internal/catalog"
	"github.com/farm2bag/voicecart/internal/observe"
	"github.com/farm2bag/voicecart/internal/order"
	"github.com/farm2bag/voicecart/internal/pipeline"
	"github.com/farm2bag/voicecart/internal/store"
	"github.com/farm2bag/voicecart/pkg/provider/stt"
)

// requestStatus maps a provider call result onto the "status" attribute of
// the provider request counter.
func requestStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// handleTranscribe accepts a multipart audio upload, transcribes it, runs the
// extraction pipeline, and persists the resulting transcription record.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := observe.Logger(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file in form field \"audio\"")
		return
	}
	defer file.Close()

	start := s.now()
	transcript, err := s.stt.Transcribe(ctx, stt.Request{
		Audio:    file,
		Filename: header.Filename,
	})
	s.metrics.STTDuration.Record(ctx, time.Since(start).Seconds())
	s.metrics.RecordProviderRequest(ctx, "stt", "transcribe", requestStatus(err))
	if err != nil {
		s.metrics.RecordProviderError(ctx, "stt", "transcribe")
		observe.SpanError(trace.SpanFromContext(ctx), err)
		log.Error("transcription failed", "err", err)
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}
	if strings.TrimSpace(transcript.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "no speech detected in audio")
		return
	}

	start = s.now()
	res, err := s.pipeline.Process(ctx, transcript.Text)
	s.metrics.LLMDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, catalog.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
			return
		}
		s.metrics.RecordProviderRequest(ctx, "llm", "complete", "error")
		s.metrics.RecordProviderError(ctx, "llm", "complete")
		observe.SpanError(trace.SpanFromContext(ctx), err)
		log.Error("product extraction failed", "err", err)
		writeError(w, http.StatusBadGateway, "product extraction failed")
		return
	}
	s.metrics.RecordProviderRequest(ctx, "llm", "complete", "ok")

	s.metrics.ExtractionRecords.Add(ctx, int64(len(res.Items)))
	for _, it := range res.Items {
		s.metrics.RecordMatchOutcome(ctx, it.Matched)
	}

	saved, err := s.transcriptions.Save(ctx, store.Transcription{
		Transcript: res.Transcript,
		Products:   res.Items,
		CreatedAt:  s.now(),
	})
	if err != nil {
		log.Error("save transcription failed", "err", err)
		writeError(w, http.StatusInternalServerError, "save transcription failed")
		return
	}

	log.Info("transcription processed",
		"id", saved.ID,
		"products", len(saved.Products),
	)
	writeJSON(w, http.StatusCreated, saved)
}

// handleLatestTranscription returns the most recently saved transcription.
func (s *Server) handleLatestTranscription(w http.ResponseWriter, r *http.Request) {
	t, err := s.transcriptions.Latest(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no transcriptions yet")
			return
		}
		observe.Logger(r.Context()).Error("load latest transcription failed", "err", err)
		writeError(w, http.StatusInternalServerError, "load transcription failed")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleGetTranscription returns a transcription by ID.
func (s *Server) handleGetTranscription(w http.ResponseWriter, r *http.Request) {
	t, err := s.transcriptions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transcription not found")
			return
		}
		observe.Logger(r.Context()).Error("load transcription failed", "err", err)
		writeError(w, http.StatusInternalServerError, "load transcription failed")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// updateTranscriptionRequest is the body of PUT /transcriptions/{id}.
type updateTranscriptionRequest struct {
	Products []pipeline.Item `json:"products"`
	Note     string          `json:"note"`
}

// handleUpdateTranscription replaces a transcription's product rows and
// records the revision in its change history.
func (s *Server) handleUpdateTranscription(w http.ResponseWriter, r *http.Request) {
	var req updateTranscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Products == nil {
		writeError(w, http.StatusBadRequest, "products must be provided")
		return
	}

	change := &store.ChangeRecord{At: s.now(), Note: req.Note}
	t, err := s.transcriptions.UpdateProducts(r.Context(), r.PathValue("id"), req.Products, change)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transcription not found")
			return
		}
		observe.Logger(r.Context()).Error("update transcription failed", "err", err)
		writeError(w, http.StatusInternalServerError, "update transcription failed")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// matchProductRequest is the body of POST /api/match-product.
type matchProductRequest struct {
	Name string `json:"name"`
}

// handleMatchProduct resolves a single product name against the catalog and
// returns the match result, confidence included.
func (s *Server) handleMatchProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req matchProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	idx, err := s.catalog.Index()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}

	start := s.now()
	res := s.matcher.Match(req.Name, idx)
	s.metrics.MatchDuration.Record(ctx, time.Since(start).Seconds())
	s.metrics.RecordMatchOutcome(ctx, res.Matched)

	writeJSON(w, http.StatusOK, res)
}

// createOrderRequest is the body of POST /api/orders.
type createOrderRequest struct {
	Products []order.LineItem `json:"products"`
}

// handleCreateOrder aggregates the submitted line items and persists the
// order. Subtotals and the total are recomputed server-side; client-supplied
// figures are ignored.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, "order has no products")
		return
	}

	items := order.Aggregate(req.Products)
	o, err := s.orders.Create(r.Context(), order.Order{
		Items:     items,
		Total:     order.Total(items),
		Status:    "pending",
		CreatedAt: s.now(),
	})
	if err != nil {
		observe.Logger(r.Context()).Error("create order failed", "err", err)
		writeError(w, http.StatusInternalServerError, "create order failed")
		return
	}

	observe.Logger(r.Context()).Info("order created",
		"id", o.ID,
		"items", len(o.Items),
		"total", o.Total,
	)
	writeJSON(w, http.StatusCreated, o)
}

// handleGetOrder returns an order by ID.
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		observe.Logger(r.Context()).Error("load order failed", "err", err)
		writeError(w, http.StatusInternalServerError, "load order failed")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// handleInvoice renders the order's invoice as a PDF download.
func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		observe.Logger(r.Context()).Error("load order failed", "err", err)
		writeError(w, http.StatusInternalServerError, "load order failed")
		return
	}

	var buf bytes.Buffer
	if err := s.invoices.Render(&buf, o); err != nil {
		observe.Logger(r.Context()).Error("render invoice failed", "id", o.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "render invoice failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+o.ID+".pdf"))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
