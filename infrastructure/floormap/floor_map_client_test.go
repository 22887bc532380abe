package floormap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchFloorMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/floor4.svg":
			w.Header().Set("Content-Type", "image/svg+xml")
			w.Write([]byte(`<svg><rect id="P3"/></svg>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewFloorMapClient(5 * time.Second)

	body, err := client.FetchFloorMap(context.Background(), server.URL+"/floor4.svg")
	if err != nil {
		t.Fatalf("FetchFloorMap: %v", err)
	}
	if !strings.Contains(string(body), `id="P3"`) {
		t.Fatalf("unexpected body %q", body)
	}

	if _, err := client.FetchFloorMap(context.Background(), server.URL+"/floor9.svg"); err == nil {
		t.Fatal("expected an error for a 404")
	}
}

func TestFetchFloorMapHonoursContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewFloorMapClient(5 * time.Second)
	if _, err := client.FetchFloorMap(ctx, server.URL+"/floor3.svg"); err == nil {
		t.Fatal("expected cancelled context to fail the fetch")
	}
}

func TestProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe used %s", r.Method)
		}
		if r.URL.Path == "/missing.svg" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewFloorMapClient(time.Second)
	if err := client.Probe(context.Background(), server.URL+"/floor3.svg"); err != nil {
		t.Errorf("Probe: %v", err)
	}
	if err := client.Probe(context.Background(), server.URL+"/missing.svg"); err == nil {
		t.Error("expected probe of a missing map to fail")
	}
}
