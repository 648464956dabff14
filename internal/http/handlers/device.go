// Package handlers provides the HTTP handlers for auratheme.
package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmylchreest/auratheme/internal/codec"
	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/jmylchreest/auratheme/internal/observability"
	"github.com/jmylchreest/auratheme/internal/restart"
	"github.com/jmylchreest/auratheme/internal/storage"
)

// maxSaveBody bounds the POST /save body. The page sends well under 1KiB.
const maxSaveBody = 64 << 10

// ThemeStore is the part of service.ThemeStore the handlers use.
type ThemeStore interface {
	Get() models.ColorTheme
	Update(ctx context.Context, fn func(models.ColorTheme) models.ColorTheme) error
	SetCustomColor(ctx context.Context, field models.ThemeField, value uint32) error
	ApplyPreset(ctx context.Context, id string) (models.Preset, error)
}

// ApplyRequester asks for a committed theme to be applied.
type ApplyRequester interface {
	Request(reason string) restart.ApplyRequest
}

// DeviceHandler serves the three endpoints the device web page uses. Bodies
// are read raw rather than through huma so the lenient decoder sees exactly
// what the page sent.
type DeviceHandler struct {
	store     ThemeStore
	applier   ApplyRequester
	assets    storage.AssetStore
	indexFile string
	logger    *slog.Logger
}

// NewDeviceHandler creates a device handler. A nil store makes /current and
// /save answer 500 until the process is restarted with a bound store.
func NewDeviceHandler(store ThemeStore, applier ApplyRequester, assets storage.AssetStore, indexFile string) *DeviceHandler {
	if indexFile == "" {
		indexFile = "index.html"
	}
	return &DeviceHandler{
		store:     store,
		applier:   applier,
		assets:    assets,
		indexFile: indexFile,
		logger:    slog.Default(),
	}
}

// WithLogger sets the logger for the handler.
func (h *DeviceHandler) WithLogger(logger *slog.Logger) *DeviceHandler {
	h.logger = logger
	return h
}

// Register mounts the device routes on r.
func (h *DeviceHandler) Register(r chi.Router) {
	r.Get("/", h.ServeIndex)
	r.Get("/current", h.GetCurrent)
	r.Post("/save", h.Save)
}

// ServeIndex streams the root page from the asset store.
func (h *DeviceHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if h.assets == nil {
		notFound(w)
		return
	}

	f, err := h.assets.Open(h.indexFile)
	if err != nil {
		if !errors.Is(err, storage.ErrAssetNotFound) {
			h.log(r).WarnContext(r.Context(), "opening index page", slog.String("error", err.Error()))
		}
		notFound(w)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		h.log(r).DebugContext(r.Context(), "streaming index page", slog.String("error", err.Error()))
	}
}

// GetCurrent returns the current theme in the device JSON encoding.
func (h *DeviceHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusInternalServerError, []byte(`{"error":"Theme manager not initialized"}`))
		return
	}
	writeJSON(w, http.StatusOK, codec.Encode(h.store.Get()))
}

// Save merges the posted colors into the current theme, persists it and
// requests an apply. Nothing is applied when persisting fails.
func (h *DeviceHandler) Save(w http.ResponseWriter, r *http.Request) {
	logger := h.log(r)

	if h.store == nil {
		logger.ErrorContext(r.Context(), "save rejected", slog.String("error", models.ErrStoreUnbound.Error()))
		writeJSON(w, http.StatusInternalServerError, []byte(`{"success":false}`))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSaveBody))
	if err != nil {
		// Whatever arrived is still decoded; the decoder never fails.
		logger.WarnContext(r.Context(), "reading save body", slog.String("error", err.Error()))
	}

	var fields []models.ThemeField
	err = h.store.Update(r.Context(), func(current models.ColorTheme) models.ColorTheme {
		var theme models.ColorTheme
		theme, fields = codec.DecodeReport(body, current)
		return theme
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "saving theme", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, []byte(`{"success":false}`))
		return
	}

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	logger.InfoContext(r.Context(), "theme saved", slog.Any("fields", names))

	writeJSON(w, http.StatusOK, []byte(`{"success":true}`))

	if h.applier != nil {
		req := h.applier.Request("theme saved")
		logger.InfoContext(r.Context(), "apply requested", slog.String("apply_id", req.ID.String()))
	}
}

func (h *DeviceHandler) log(r *http.Request) *slog.Logger {
	if id := observability.RequestIDFromContext(r.Context()); id != "" {
		return observability.WithRequestID(h.logger, id)
	}
	return h.logger
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("File not found"))
}
