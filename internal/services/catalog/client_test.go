package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"TransitScan/internal/domain/models"
	"TransitScan/pkg/config"
)

func newTestCatalog(url string) *HTTPTargetCatalog {
	cfg := &config.Config{}
	cfg.Catalog.URL = url
	return NewHTTPTargetCatalog(cfg)
}

func TestLookupDisabled(t *testing.T) {
	c := newTestCatalog("")
	info, err := c.Lookup(context.Background(), "KIC-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if info.Target != "KIC-1" || info.Known {
		t.Fatalf("disabled lookup should echo target only: %+v", info)
	}
}

func TestLookupFetchesAndCaches(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/targets/KIC-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(models.TargetInfo{
			Target: "KIC-1", RA: 291.1, Dec: 44.5, Magnitude: 12.3,
		})
	}))
	defer srv.Close()

	c := newTestCatalog(srv.URL)

	info, err := c.Lookup(context.Background(), "KIC-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !info.Known || info.RA != 291.1 {
		t.Fatalf("info = %+v", info)
	}

	if _, err := c.Lookup(context.Background(), "KIC-1"); err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if hits != 1 {
		t.Fatalf("catalog hit %d times, want 1 (cached)", hits)
	}
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestCatalog(srv.URL)
	if _, err := c.Lookup(context.Background(), "KIC-1"); err == nil {
		t.Fatalf("expected error on 500")
	}
}
