package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	cache "github.com/kibblescan/sitecache"
	"github.com/kibblescan/sitecache/catalog"
)

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products/{barcode}", s.getProduct)
		r.Get("/products/{barcode}/score", s.getScore)
		r.Get("/search", s.search)
		r.Get("/lookup", s.lookup)

		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", s.cacheStats)
			r.Post("/cleanup", s.cacheCleanup)
			r.Delete("/{name}", s.cacheClear)
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.ByBarcode(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) getScore(w http.ResponseWriter, r *http.Request) {
	score, err := s.catalog.Score(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	found, err := s.catalog.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if found == nil {
		found = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Lookup(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type statsBody struct {
	Size              int     `json:"size"`
	Weight            int     `json:"weight"`
	AverageAgeSeconds float64 `json:"average_age_seconds"`
}

func (s *Server) cacheStats(w http.ResponseWriter, _ *http.Request) {
	all := s.registry.StatsAll()
	out := make(map[string]statsBody, len(all))
	for name, st := range all {
		out[name] = statsBody{
			Size:              st.Size,
			Weight:            st.Weight,
			AverageAgeSeconds: st.AverageAge.Seconds(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) cacheCleanup(w http.ResponseWriter, _ *http.Request) {
	s.registry.CleanupAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) cacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Clear(chi.URLParam(r, "name")); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrEmptyQuery):
		status = http.StatusBadRequest
	case cache.IsConfigurationError(err):
		s.log.Error("cache misconfigured", zap.Error(err), zap.String("path", r.URL.Path))
	default:
		s.log.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
