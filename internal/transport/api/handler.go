package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/pkg/log"
)

type ContentStore interface {
	Drop(ctx context.Context, req core.DropRequest) (core.ContentRecord, error)
	SetMode(ctx context.Context, mode core.ViewMode) error
	Snapshot() core.Snapshot
	All() []core.ContentRecord
}

type PositionSink interface {
	Push(sample core.LocationSample) error
	Fail(err *core.LocationError)
}

// HealthReporter exposes persistence health.
type HealthReporter interface {
	Degraded() bool
	Len() int
}

type Handler struct {
	store  ContentStore
	sink   PositionSink
	health HealthReporter
}

func NewHandler(store ContentStore, sink PositionSink, health HealthReporter) *Handler {
	return &Handler{store: store, sink: sink, health: health}
}

// Routes builds the /api tree. ctx carries the base logger.
func (h *Handler) Routes(ctx context.Context, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(ctx),
		middleware.Recoverer,
		middleware.Timeout(timeout),
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.getHealth)
		r.Post("/location", h.postLocation)
		r.Get("/snapshot", h.getSnapshot)
		r.Get("/landmarks", h.getLandmarks)
		r.Put("/mode", h.putMode)

		r.Route("/content", func(r chi.Router) {
			r.Get("/", h.listContent)
			r.Post("/", h.dropContent)
			r.Get("/nearby", h.nearbyContent)
		})
	})
	return r
}

// requestLogger attaches the base logger to each request and logs it.
func requestLogger(base context.Context) func(http.Handler) http.Handler {
	logger := log.FromCtx(base)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			l := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(l.WithContext(r.Context()))

			next.ServeHTTP(ww, r)

			l.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("http request")
		})
	}
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	body := map[string]any{
		"status":   "ok",
		"tracking": snap.Location != nil,
		"degraded": false,
		"content":  0,
		"mode":     snap.Mode,
	}
	if h.health != nil {
		body["degraded"] = h.health.Degraded()
		body["content"] = h.health.Len()
	}
	writeJSON(w, http.StatusOK, body)
}

// locationPayload is either a fix or a geolocation error code as reported
// by a browser page.
type locationPayload struct {
	Latitude  *float64               `json:"latitude"`
	Longitude *float64               `json:"longitude"`
	Accuracy  float64                `json:"accuracy"`
	Error     core.LocationErrorCode `json:"error"`
	Message   string                 `json:"message"`
}

func (h *Handler) postLocation(w http.ResponseWriter, r *http.Request) {
	var p locationPayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid location payload")
		return
	}

	if p.Error != 0 {
		if !p.Error.Valid() {
			writeError(w, http.StatusBadRequest, "unknown geolocation error code")
			return
		}
		h.sink.Fail(core.NewLocationError(p.Error, p.Message))
		writeJSON(w, http.StatusAccepted, h.store.Snapshot())
		return
	}

	if p.Latitude == nil || p.Longitude == nil {
		writeError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	sample := core.LocationSample{Latitude: *p.Latitude, Longitude: *p.Longitude, Accuracy: p.Accuracy}
	if err := h.sink.Push(sample); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	log.FromCtx(r.Context()).Debug().
		Float64("lat", sample.Latitude).
		Float64("lng", sample.Longitude).
		Float64("accuracy", sample.Accuracy).
		Msg("location received over http")
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) getLandmarks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot().Landmarks)
}

func (h *Handler) putMode(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Mode core.ViewMode `json:"mode"`
	}
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid mode payload")
		return
	}
	if err := h.store.SetMode(r.Context(), p.Mode); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]core.ViewMode{"mode": p.Mode})
}

func (h *Handler) listContent(w http.ResponseWriter, r *http.Request) {
	all := h.store.All()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < len(all) {
			all = all[len(all)-n:]
		}
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *Handler) nearbyContent(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	if snap.Location == nil {
		writeError(w, http.StatusPreconditionRequired, core.ErrLocationRequired.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap.Nearby)
}

func (h *Handler) dropContent(w http.ResponseWriter, r *http.Request) {
	var req core.DropRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid content payload")
			return
		}
	}

	rec, err := h.store.Drop(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, rec)
	case errors.Is(err, core.ErrInvalidContent):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrLocationRequired), errors.Is(err, core.ErrLocationStale):
		writeError(w, http.StatusPreconditionRequired, err.Error())
	default:
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to drop content")
		writeError(w, http.StatusInternalServerError, "failed to store content")
	}
}
