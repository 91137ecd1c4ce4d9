package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AngelCh415/marketing-dashboard/internal/config"
	"github.com/AngelCh415/marketing-dashboard/internal/store"
)

// helper: hace la petición y devuelve código HTTP + error de red (si hubo)
func fetchURL(c HTTPClient, url string) (int, error) {
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

const payload = `[
 {"id": 1, "channel": " Email ", "region": "US", "spend": 100, "impressions": 1000, "conversions": 10, "clicks": 50},
 {"id": 2, "channel": "Social", "region": "US", "spend": 200, "impressions": 2000, "conversions": 40, "clicks": 100},
 {"id": 2, "channel": "Dup", "region": "EU", "spend": 1, "impressions": 1, "conversions": 1, "clicks": 1}
]`

func TestHTTPClientHandles500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	code, err := fetchURL(NewHTTPClient(2*time.Second), srv.URL)
	if err != nil {
		t.Fatalf("unexpected network error: %v", err)
	}
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
}

func TestHTTPClientHandlesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	if _, err := fetchURL(NewHTTPClient(50*time.Millisecond), srv.URL); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestGetJSONWithRetryRecovers(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	var dst recordResp
	if err := GetJSONWithRetry(context.Background(), NewHTTPClient(time.Second), srv.URL, &dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 3 || len(dst) != 3 {
		t.Fatalf("expected 3 hits and 3 records, got %d hits %d records", hits.Load(), len(dst))
	}
}

func TestGetJSONWithRetryStopsOn404(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	var dst recordResp
	err := GetJSONWithRetry(context.Background(), NewHTTPClient(time.Second), srv.URL, &dst)
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d hits", hits.Load())
	}
}

func TestLoadBundled(t *testing.T) {
	st := store.NewMemoryStore()
	n, err := NewLoader(NewHTTPClient(time.Second), st, quietLogger(), config.Config{}).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 || st.Len() != n {
		t.Fatalf("expected bundled records, got n=%d len=%d", n, st.Len())
	}
	for _, r := range st.All() {
		if r.Channel == "" || r.Region == "" {
			t.Fatalf("bundled record %d missing channel/region", r.ID)
		}
	}
}

func TestLoadFromPathDedupesAndTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()
	n, err := NewLoader(NewHTTPClient(time.Second), st, quietLogger(), config.Config{DataPath: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 records after dedupe, got %d", n)
	}
	all := st.All()
	if all[0].Channel != "Email" || all[1].Channel != "Social" {
		t.Fatalf("unexpected records %+v", all)
	}
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	st := store.NewMemoryStore()
	n, err := NewLoader(NewHTTPClient(time.Second), st, quietLogger(), config.Config{DataURL: srv.URL}).Load(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("expected 2 records, got %d (err=%v)", n, err)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"not": "an array"`), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader(NewHTTPClient(time.Second), store.NewMemoryStore(), quietLogger(), config.Config{DataPath: path}).Load(context.Background())
	if err == nil {
		t.Fatal("expected decode error")
	}

	_, err = NewLoader(NewHTTPClient(time.Second), store.NewMemoryStore(), quietLogger(), config.Config{DataPath: filepath.Join(t.TempDir(), "missing.json")}).Load(context.Background())
	if err == nil {
		t.Fatal("expected read error")
	}
}
