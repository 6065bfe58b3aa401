package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"painlog/config"
	"painlog/internal/app"
	"painlog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_Middleware(t *testing.T) {
	cfg := config.Config{
		GeneralVersion:    "test",
		DatabaseDriver:    config.DriverSQLite,
		ServerPort:        8280,
		DefaultWindowDays: 30,
		CorsAllowOrigins:  "https://app.example.com",
	}

	application, err := app.NewWithDatabase(cfg, testutil.NewDB(t))
	require.NoError(t, err)

	server, err := newServer(application)
	require.NoError(t, err)

	t.Run("health carries a request id", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("preflight allows the caller header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/pain-entries", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := server.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-User-ID")
	})
}
