package utils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestIDAndMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(slog.New(slog.NewTextHandler(io.Discard, nil)), m))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if RID(r.Context()) == "" {
			t.Error("missing request id in context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("expected propagated request id, got %q", rec.Header().Get("X-Request-ID"))
	}

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("/items/{id}", http.MethodGet, "418")); got != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", got)
	}
}

func TestObserverFeedsCollectors(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	obs := m.Observer()
	obs.Mutation("set_sort")
	obs.Mutation("set_sort")
	obs.Stage("sort", 0)
	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("set_sort")); got != 2 {
		t.Fatalf("expected 2 mutations, got %v", got)
	}
	if n := testutil.CollectAndCount(m.Derive); n != 1 {
		t.Fatalf("expected 1 derive series, got %d", n)
	}
}
