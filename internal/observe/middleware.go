package observe

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// RouteLabel collapses the identifier segments of the API surface so that
// span names and metric attributes stay low-cardinality. Transcription and
// order IDs are random hex, so labelling by raw path would mint a new
// Prometheus series per record.
//
//	/transcriptions/9f2c...      -> /transcriptions/{id}
//	/api/orders/4ab1.../invoice  -> /api/orders/{id}/invoice
//
// Paths outside the known surface pass through unchanged.
func RouteLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/transcriptions/") && path != "/transcriptions/latest":
		return "/transcriptions/{id}"
	case strings.HasPrefix(path, "/api/orders/"):
		if strings.HasSuffix(path, "/invoice") {
			return "/api/orders/{id}/invoice"
		}
		return "/api/orders/{id}"
	}
	return path
}

// responseTracker captures the status code and body size written by the
// downstream handler. An unset status counts as 200, matching net/http's
// implicit WriteHeader.
type responseTracker struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (t *responseTracker) WriteHeader(code int) {
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

func (t *responseTracker) Write(p []byte) (int, error) {
	n, err := t.ResponseWriter.Write(p)
	t.bytes += n
	return n, err
}

// Middleware wraps a handler with the per-request observability the service
// carries on every route: W3C trace context extraction, a server span named
// after the collapsed route, the X-Correlation-ID response header, the
// [Metrics.HTTPRequestDuration] histogram, and a completion log line.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	prop := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := RouteLabel(r.URL.Path)

			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := StartSpan(ctx, r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRoute(route),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()

			cid := CorrelationID(ctx)
			if cid != "" {
				w.Header().Set("X-Correlation-ID", cid)
			}
			prop.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			tracked := &responseTracker{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(tracked, r.WithContext(ctx))

			elapsed := time.Since(start)
			m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(),
				metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.String("route", route),
					attribute.Int("status", tracked.status),
				),
			)
			span.SetAttributes(
				semconv.HTTPResponseStatusCode(tracked.status),
				semconv.HTTPResponseBodySize(tracked.bytes),
			)

			slog.LogAttrs(ctx, slog.LevelInfo, "request completed",
				slog.String("trace_id", cid),
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.String("path", r.URL.Path),
				slog.Int("status", tracked.status),
				slog.Int("bytes", tracked.bytes),
				slog.Duration("duration", elapsed),
			)
		})
	}
}
