package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farm2bag/voicecart/internal/catalog"
)

func probe(t *testing.T, h *Handler, path string) (int, report) {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

	var body report
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s body: %v", path, err)
	}
	return rec.Code, body
}

func TestHealthz(t *testing.T) {
	// Liveness ignores checker state: a process mid-catalog-load is alive.
	h := New(CatalogChecker(catalog.NewHolder(nil)))

	code, body := probe(t, h, "/healthz")
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if body.Status != "ok" {
		t.Errorf("body status = %q, want ok", body.Status)
	}
	if body.Checks != nil {
		t.Errorf("healthz reported checks: %v", body.Checks)
	}
}

func TestReadyz_CatalogGatesTraffic(t *testing.T) {
	holder := catalog.NewHolder(nil)
	h := New(CatalogChecker(holder))

	code, body := probe(t, h, "/readyz")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status before catalog load = %d, want 503", code)
	}
	if body.Status != "fail" {
		t.Errorf("body status = %q, want fail", body.Status)
	}

	holder.Swap(catalog.Build([]catalog.Entry{
		{CanonicalName: "Tomato", Unit: "kg", PricePerUnit: 40},
	}))

	code, body = probe(t, h, "/readyz")
	if code != http.StatusOK {
		t.Fatalf("status after catalog load = %d, want 200", code)
	}
	if body.Checks["catalog"] != "ok" {
		t.Errorf("catalog check = %q, want ok", body.Checks["catalog"])
	}
}

func TestReadyz_ReportsEachChecker(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		wantCode   int
		wantStatus string
		wantDB     string
	}{
		{
			name:       "all pass",
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantDB:     "ok",
		},
		{
			name:       "database down",
			dbErr:      errors.New("pool closed"),
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "fail",
			wantDB:     "fail: pool closed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			holder := catalog.NewHolder(catalog.Build([]catalog.Entry{
				{CanonicalName: "Onion", Unit: "kg", PricePerUnit: 35},
			}))
			h := New(
				CatalogChecker(holder),
				Checker{Name: "database", Check: func(context.Context) error { return tc.dbErr }},
			)

			code, body := probe(t, h, "/readyz")
			if code != tc.wantCode {
				t.Errorf("status = %d, want %d", code, tc.wantCode)
			}
			if body.Status != tc.wantStatus {
				t.Errorf("body status = %q, want %q", body.Status, tc.wantStatus)
			}
			if body.Checks["catalog"] != "ok" {
				t.Errorf("catalog check = %q, want ok", body.Checks["catalog"])
			}
			if body.Checks["database"] != tc.wantDB {
				t.Errorf("database check = %q, want %q", body.Checks["database"], tc.wantDB)
			}
		})
	}
}

func TestReadyz_NoCheckers(t *testing.T) {
	code, body := probe(t, New(), "/readyz")
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if body.Status != "ok" {
		t.Errorf("body status = %q, want ok", body.Status)
	}
}

func TestReadyz_RunsCheckersConcurrently(t *testing.T) {
	// The first checker blocks until the second has run. Sequential
	// evaluation would stall it to its timeout and fail readiness.
	released := make(chan struct{})
	h := New(
		Checker{Name: "waiter", Check: func(ctx context.Context) error {
			select {
			case <-released:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}},
		Checker{Name: "releaser", Check: func(context.Context) error {
			close(released)
			return nil
		}},
	)

	code, body := probe(t, h, "/readyz")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200; checks: %v", code, body.Checks)
	}
}

func TestReadyz_HonorsRequestCancellation(t *testing.T) {
	h := New(Checker{Name: "slow", Check: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest("GET", "/readyz", nil).WithContext(ctx))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
