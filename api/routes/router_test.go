package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"knoxshield/internal/app"
	"knoxshield/internal/config"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, opts app.Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	v := viper.New()
	for k, val := range config.Defaults() {
		v.SetDefault(k, val)
	}
	v.Set("data_dir", t.TempDir())
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	a, err := app.New(context.Background(), cfg, logger.NewDiscardLogger(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })

	deps := Deps{
		Catalog:     a.Catalog,
		Operations:  a.Operations,
		AI:          a.AI,
		Preferences: a.Preferences,
		Events:      a.Events,
		Logger:      a.Logger,
		CORSOrigins: cfg.Server.CORSOrigins,
	}
	if a.VPN != nil {
		deps.VPN = a.VPN
	}
	return InitRouter(deps)
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(t, app.Options{})

	tests := []struct {
		method         string
		path           string
		expectedStatus int
		contains       string
	}{
		{"GET", "/api/health", 200, `"status":"ok"`},
		{"GET", "/api/categories", 200, `"id"`},
		{"GET", "/api/categories/unknown", 404, `"error"`},
		{"GET", "/api/operations", 200, `[]`},
		{"GET", "/api/operations/stats", 200, `"maxConcurrent":8`},
		{"GET", "/api/operations/missing", 404, `"error"`},
		{"GET", "/api/settings", 200, `"theme":"dark"`},
		{"GET", "/api/i18n/en", 200, `"dir":"ltr"`},
		{"GET", "/api/vpn", 200, `"servers"`},
		{"GET", "/api/vpn/servers/missing/qr", 404, `"error"`},
		{"POST", "/api/operations/missing/analyze", 503, `"error"`},
		{"GET", "/", 200, "<!DOCTYPE html>"},
		{"GET", "/operations?lang=ar", 200, `dir="rtl"`},
		{"GET", "/vpn", 200, "KNOX Shield VPN"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestRoutes_WithoutVPN(t *testing.T) {
	router := newTestRouter(t, app.Options{WithoutVPN: true})

	for _, path := range []string{"/api/vpn", "/vpn"} {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 404, w.Code, path)
	}

	req, _ := http.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, false, health["vpn_enabled"])
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, app.Options{WithoutVPN: true})

	req, _ := http.NewRequest("OPTIONS", "/api/operations", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "POST"))

	req, _ = http.NewRequest("OPTIONS", "/api/operations", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 403, w.Code)
}
