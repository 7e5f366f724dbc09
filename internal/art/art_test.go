package art

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/SohamBorate/spot-dl-downloader/internal/progress"
)

func TestEnsureDownloadsAndPersists(t *testing.T) {
	payload := bytes.Repeat([]byte("jpegdata"), 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "Y - Z.jpg")
	svc := NewService()

	var received int
	notifier := &progress.Notifier{}
	notifier.Subscribe(progress.KindData, func(payload any) {
		if chunk, ok := payload.([]byte); ok {
			received += len(chunk)
		}
	})

	cached, err := svc.Ensure(context.Background(), srv.URL, path, notifier)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if cached {
		t.Error("expected cache miss on first fetch")
	}
	if received != len(payload) {
		t.Errorf("chunk notifications covered %d bytes, want %d", received, len(payload))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading persisted art: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("persisted art does not match response body")
	}
}

func TestEnsureCacheHitSkipsNetwork(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "Y - Z.jpg")
	if err := os.WriteFile(path, []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewService()
	cached, err := svc.Ensure(context.Background(), srv.URL, path, nil)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if !cached {
		t.Error("expected cache hit")
	}
	if requests != 0 {
		t.Errorf("cache hit made %d network requests, want 0", requests)
	}
}

func TestEnsureBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewService()
	path := filepath.Join(t.TempDir(), "art.jpg")
	if _, err := svc.Ensure(context.Background(), srv.URL, path, nil); err == nil {
		t.Error("expected error for non-200 response")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written on a failed fetch")
	}
}
