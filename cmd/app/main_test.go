package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"travelmind/internal/api/controllers"
	"travelmind/internal/config"
	"travelmind/pkg/utils"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	verifier, err := utils.NewTokenVerifier("router-test-secret", "", "")
	require.NoError(t, err)

	cfg := config.Config{App: config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:5173"}}}
	return ProvideRouter(routerParams{
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Verifier:  verifier,
		Health:    controllers.NewHealthController(db),
		Trips:     controllers.NewTripController(nil),
		Itinerary: controllers.NewItineraryController(nil),
		Expenses:  controllers.NewExpenseController(nil),
		Profile:   controllers.NewProfileController(nil),
		Voice:     controllers.NewVoiceController(nil, cfg.App.CORSOrigins),
		Maps:      controllers.NewMapController(nil),
	})
}

func TestRouter_PublicAndProtected(t *testing.T) {
	r := newTestEngine(t)

	for _, path := range []string{"/healthz", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/trips"},
		{http.MethodPost, "/trips/generate"},
		{http.MethodDelete, "/expenses/6f1c0d3e-8d0b-4a39-9d51-7d0c9a1e2f00"},
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/voice/parse"},
		{http.MethodGet, "/maps/route"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	}
}

func TestRouter_Preflight(t *testing.T) {
	r := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/trips", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
