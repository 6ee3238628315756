package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache "github.com/kibblescan/sitecache"
	"github.com/kibblescan/sitecache/catalog"
	"github.com/kibblescan/sitecache/server"
)

func newServer(t *testing.T, opts ...server.Option) (*server.Server, *cache.Registry) {
	t.Helper()
	products, err := catalog.Bundled()
	require.NoError(t, err)

	reg := cache.NewDefaultRegistry()
	cfg := server.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}
	return server.New(cfg, reg, catalog.New(products, reg), opts...), reg
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetProduct(t *testing.T) {
	s, reg := newServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/products/0012345678905")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var p catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "0012345678905", p.Barcode)

	ok, err := reg.Has(cache.API, "product:0012345678905")
	require.NoError(t, err)
	assert.True(t, ok)

	rec = do(t, h, http.MethodGet, "/api/products/99999999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetScore(t *testing.T) {
	s, _ := newServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/api/products/0012345678905/score")
	require.Equal(t, http.StatusOK, rec.Code)

	var score catalog.Score
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 85, score.Points)
	assert.Equal(t, catalog.GradeA, score.Grade)
}

func TestSearch(t *testing.T) {
	s, _ := newServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/search?q=salmon")
	require.Equal(t, http.StatusOK, rec.Code)
	var found []catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 2)

	rec = do(t, h, http.MethodGet, "/api/search?q=unicorn")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/search?q=")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/search?q=salmon&limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookup(t *testing.T) {
	s, _ := newServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/lookup?q=whitefish")
	require.Equal(t, http.StatusOK, rec.Code)
	var p catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "0045678901236", p.Barcode)

	rec = do(t, h, http.MethodGet, "/api/lookup?q=unicorn")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCacheEndpoints(t *testing.T) {
	s, reg := newServer(t)
	h := s.Handler()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/products/0012345678905").Code)

	rec := do(t, h, http.MethodGet, "/api/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]struct {
		Size int `json:"size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Len(t, stats, 4)
	assert.Equal(t, 1, stats[cache.API].Size)
	assert.Equal(t, 0, stats[cache.Static].Size)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/api/cache/cleanup").Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/cache/api").Code)
	st, err := reg.Stats(cache.API)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Size)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/cache/nope").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, s.Handler(), http.MethodGet, "/metrics").Code)

	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	s, _ = newServer(t, server.WithMetricsHandler(metricsHandler))
	rec := do(t, s.Handler(), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStartCleanup(t *testing.T) {
	s, _ := newServer(t, server.WithCleanupSchedule("@every 1s"))
	stop, err := s.StartCleanup()
	require.NoError(t, err)
	stop()

	s, _ = newServer(t, server.WithCleanupSchedule("not a schedule"))
	_, err = s.StartCleanup()
	assert.Error(t, err)

	s, _ = newServer(t)
	stop, err = s.StartCleanup()
	require.NoError(t, err)
	stop()
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s, _ := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
