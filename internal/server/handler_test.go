package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SohamBorate/spot-dl-downloader/internal/app"
	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
)

type fakeDispatcher struct {
	readiness *app.Readiness
	calls     chan string
}

func newFakeDispatcher(state app.ReadyState) *fakeDispatcher {
	r := app.NewReadiness()
	switch state {
	case app.StateReady:
		r.SetReady()
	case app.StateError:
		r.SetError()
	}
	return &fakeDispatcher{readiness: r, calls: make(chan string, 8)}
}

func (d *fakeDispatcher) Download(ctx context.Context, rawURL string, redownload bool) error {
	d.calls <- rawURL
	return nil
}

func (d *fakeDispatcher) Readiness() *app.Readiness {
	return d.readiness
}

type fakeHistory struct {
	downloads []*domain.Download
	err       error
	lastLimit int
}

func (h *fakeHistory) ListDownloads(limit int) ([]*domain.Download, error) {
	h.lastLimit = limit
	return h.downloads, h.err
}

func TestStatus(t *testing.T) {
	d := newFakeDispatcher(app.StateReady)
	router := NewRouter(NewHandler(d, &fakeHistory{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["state"] != "ready" {
		t.Errorf("state = %q, want ready", body["state"])
	}
}

func TestListDownloads(t *testing.T) {
	history := &fakeHistory{downloads: []*domain.Download{
		{ID: "1", Title: "X", Status: domain.DownloadStatusCompleted},
	}}
	router := NewRouter(NewHandler(newFakeDispatcher(app.StateReady), history, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/downloads?limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if history.lastLimit != 5 {
		t.Errorf("limit = %d, want 5", history.lastLimit)
	}
	var body []*domain.Download
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 || body[0].Title != "X" {
		t.Errorf("body = %+v", body)
	}
}

func TestListDownloadsBadLimit(t *testing.T) {
	router := NewRouter(NewHandler(newFakeDispatcher(app.StateReady), &fakeHistory{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/downloads?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListDownloadsStoreError(t *testing.T) {
	history := &fakeHistory{err: errors.New("db locked")}
	router := NewRouter(NewHandler(newFakeDispatcher(app.StateReady), history, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/downloads", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestStartDownload(t *testing.T) {
	d := newFakeDispatcher(app.StateReady)
	router := NewRouter(NewHandler(d, &fakeHistory{}, nil))

	body := bytes.NewBufferString(`{"url": "https://open.spotify.com/track/t1"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/download", body))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	select {
	case url := <-d.calls:
		if url != "https://open.spotify.com/track/t1" {
			t.Errorf("dispatched url = %q", url)
		}
	case <-time.After(time.Second):
		t.Fatal("download was never dispatched")
	}
}

func TestStartDownloadValidation(t *testing.T) {
	router := NewRouter(NewHandler(newFakeDispatcher(app.StateReady), &fakeHistory{}, nil))

	for name, body := range map[string]string{
		"empty body":  "",
		"missing url": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/download", bytes.NewBufferString(body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestStartDownloadUnavailable(t *testing.T) {
	d := newFakeDispatcher(app.StateError)
	router := NewRouter(NewHandler(d, &fakeHistory{}, nil))

	body := bytes.NewBufferString(`{"url": "https://open.spotify.com/track/t1"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/download", body))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
