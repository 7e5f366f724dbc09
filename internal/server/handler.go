// Package server exposes the downloader over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SohamBorate/spot-dl-downloader/internal/app"
	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
	"github.com/SohamBorate/spot-dl-downloader/internal/logger"
)

const defaultHistoryLimit = 50

// Dispatcher accepts download requests. Satisfied by app.Downloader.
type Dispatcher interface {
	Download(ctx context.Context, rawURL string, redownload bool) error
	Readiness() *app.Readiness
}

// HistoryLister reads the download history. Satisfied by store.DB.
type HistoryLister interface {
	ListDownloads(limit int) ([]*domain.Download, error)
}

type Handler struct {
	Downloader Dispatcher
	History    HistoryLister
	Logger     *logger.Logger
}

func NewHandler(d Dispatcher, h HistoryLister, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Downloader: d,
		History:    h,
		Logger:     log.WithComponent("http"),
	}
}

func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/status", h.Status)
	r.Get("/api/downloads", h.ListDownloads)
	r.Post("/api/download", h.StartDownload)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"state": h.Downloader.Readiness().State().String(),
	})
}

func (h *Handler) ListDownloads(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	downloads, err := h.History.ListDownloads(limit)
	if err != nil {
		h.Logger.Error("Failed to list downloads", "error", err)
		http.Error(w, "failed to list downloads", http.StatusInternalServerError)
		return
	}
	if downloads == nil {
		downloads = []*domain.Download{}
	}
	writeJSON(w, http.StatusOK, downloads)
}

type downloadRequest struct {
	URL        string `json:"url"`
	Redownload bool   `json:"redownload"`
}

// StartDownload accepts the request and runs it in the background; the
// caller watches progress through the history endpoint.
func (h *Handler) StartDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}
	if h.Downloader.Readiness().State() == app.StateError {
		http.Error(w, "downloader is unavailable", http.StatusServiceUnavailable)
		return
	}

	go func() {
		if err := h.Downloader.Download(context.Background(), req.URL, req.Redownload); err != nil {
			h.Logger.Error("Download failed", "url", req.URL, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
